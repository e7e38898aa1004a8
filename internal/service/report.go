package service

import (
    "context"
    "crypto/rand"
    "encoding/base64"
    "encoding/hex"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/vertramos/eco-reporte/internal/model"
    "github.com/vertramos/eco-reporte/internal/queue"
)

// Report creation failure kinds.
var (
    ErrPendingReport = errors.New("user already has a pending report")
    ErrBadImage      = errors.New("invalid image data")
)

// ReportStore is the subset of the report repository the service needs.
type ReportStore interface {
    Create(ctx context.Context, rep model.Report) (uint64, error)
    HasPending(ctx context.Context, userID uint64) (bool, error)
}

// EventPublisher pushes a report-created event to the queue. Nil
// disables publishing (tests, broker-less deployments).
type EventPublisher func(ctx context.Context, ev queue.ReportCreatedEvent) error

// ReportService handles report submission: the single-pending-report
// pre-condition, photo decoding and storage, the database insert, and
// the queue notification.
type ReportService struct {
    reports    ReportStore
    storageDir string
    publish    EventPublisher
}

func NewReportService(reports ReportStore, storageDir string, publish EventPublisher) *ReportService {
    return &ReportService{reports: reports, storageDir: storageDir, publish: publish}
}

// Create validates the pre-conditions, writes the photo to disk and
// inserts the report. The queue publish is best effort: a broker
// failure is logged but does not fail the submission.
func (s *ReportService) Create(ctx context.Context, userID uint64, description, photo string, lat, lng float64) (model.Report, error) {
    pending, err := s.reports.HasPending(ctx, userID)
    if err != nil {
        return model.Report{}, fmt.Errorf("check pending report: %w", err)
    }
    if pending {
        return model.Report{}, ErrPendingReport
    }

    img, err := decodePhoto(photo)
    if err != nil {
        return model.Report{}, err
    }

    name, err := randomHex(5)
    if err != nil {
        return model.Report{}, fmt.Errorf("generate image name: %w", err)
    }
    rel := filepath.Join("usuarios", fmt.Sprint(userID), "reportes", "report_"+name+".jpg")
    full := filepath.Join(s.storageDir, rel)
    if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
        return model.Report{}, fmt.Errorf("create image dir: %w", err)
    }
    if err := os.WriteFile(full, img, 0o644); err != nil {
        return model.Report{}, fmt.Errorf("write image: %w", err)
    }

    now := time.Now()
    rep := model.Report{
        UserID:      userID,
        Description: description,
        ImageURL:    "/storage/" + filepath.ToSlash(rel),
        Latitude:    lat,
        Longitude:   lng,
        Status:      model.ReportPending,
        Fecha:       now.Format("2006-01-02"),
        Hora:        now.Format("15:04:05"),
    }
    id, err := s.reports.Create(ctx, rep)
    if err != nil {
        return model.Report{}, fmt.Errorf("insert report: %w", err)
    }
    rep.ID = id
    rep.CreatedAt = now

    if s.publish != nil {
        ev := queue.ReportCreatedEvent{
            ReportID:    id,
            UserID:      userID,
            Description: description,
            Latitude:    lat,
            Longitude:   lng,
            CreatedAt:   now.UTC(),
        }
        if err := s.publish(ctx, ev); err != nil {
            log.Printf("report service: publish report.created failed: %v", err)
        }
    }
    return rep, nil
}

// decodePhoto accepts a base64 JPEG, with or without a data-URL prefix.
// Clients that send the payload through form encoding turn '+' into
// spaces, so those are folded back before decoding.
func decodePhoto(photo string) ([]byte, error) {
    if strings.HasPrefix(photo, "data:") {
        if i := strings.Index(photo, ","); i >= 0 {
            photo = photo[i+1:]
        }
    }
    photo = strings.ReplaceAll(photo, " ", "+")
    img, err := base64.StdEncoding.DecodeString(photo)
    if err != nil || len(img) == 0 {
        return nil, ErrBadImage
    }
    return img, nil
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
