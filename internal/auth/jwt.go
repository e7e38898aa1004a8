package auth // package auth provides token issuing, verification and password hashing

import (
    "errors"  // sentinel error values for decode failures
    "strconv" // parsing of string-encoded numeric claims
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// TypeRefresh is the value of the `type` claim carried by refresh tokens.
// Access tokens omit the claim entirely, which is what keeps the two kinds
// from being used interchangeably even though both are signed with the same
// secret.
const TypeRefresh = "refresh"

// Decode failure kinds.  Callers branch on these to produce distinct HTTP
// responses for an expired token versus a forged or garbled one.
var (
    ErrTokenExpired          = errors.New("token expired")
    ErrTokenSignatureInvalid = errors.New("token signature invalid")
    ErrTokenMalformed        = errors.New("token malformed")
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short‑lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long‑lived signed token exchanged for new
// access tokens.  Its jti claim carries the id of the persisted
// refresh_tokens row so the session can be revoked server-side.
type RefreshToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // UTC expiration time
}

// Claims is the verified claim set extracted from a decoded token.  Role is
// pre-resolved at mint time; nothing is looked up while signing or
// verifying.
type Claims struct {
    UserID    uint64    // sub claim
    Role      string    // role claim (admin/usuario/recolector)
    TokenID   string    // jti claim, set only on refresh tokens
    TokenType string    // type claim, "refresh" or empty
    ExpiresAt time.Time // exp claim
}

// IsRefresh reports whether the claims belong to a refresh token.  An
// access token must never be accepted where a refresh token is required
// and vice versa.
func (c Claims) IsRefresh() bool { return c.TokenType == TypeRefresh }

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the pre-resolved role name, and a TTL in
// minutes.  The JWT includes standard claims: subject (sub), role,
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT.  On top of the
// access-token claims it carries type="refresh" and a jti holding the id
// of the server-side refresh_tokens record, so the token can be matched
// against (and revoked through) the store.
func NewRefreshToken(secret string, userID uint64, role, tokenID string, ttl time.Duration) (RefreshToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "jti":  tokenID,
        "type": TypeRefresh,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Token: signed, Exp: exp}, nil
}

// Decode parses and verifies a signed token and returns its claims.  The
// signature is always verified before any claim is trusted; tokens signed
// with a non-HMAC method are rejected.  Failures map onto the three decode
// error kinds above.
func Decode(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return Claims{}, ErrTokenExpired
        case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignatureInvalid):
            return Claims{}, ErrTokenSignatureInvalid
        default:
            return Claims{}, ErrTokenMalformed
        }
    }
    if !tok.Valid {
        return Claims{}, ErrTokenMalformed
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrTokenMalformed
    }

    var c Claims
    // JWT numeric values are decoded as float64; some encoders emit the
    // subject as a string instead.
    switch sub := mc["sub"].(type) {
    case float64:
        c.UserID = uint64(sub)
    case string:
        n, err := strconv.ParseUint(sub, 10, 64)
        if err != nil {
            return Claims{}, ErrTokenMalformed
        }
        c.UserID = n
    default:
        return Claims{}, ErrTokenMalformed
    }
    if v, ok := mc["role"].(string); ok {
        c.Role = v
    }
    if v, ok := mc["jti"].(string); ok {
        c.TokenID = v
    }
    if v, ok := mc["type"].(string); ok {
        c.TokenType = v
    }
    if v, ok := mc["exp"].(float64); ok {
        c.ExpiresAt = time.Unix(int64(v), 0).UTC()
    }
    return c, nil
}
