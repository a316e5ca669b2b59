package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/tonytrieu-dev/approval-workflow-service/model"
	"github.com/tonytrieu-dev/approval-workflow-service/service/store"
)

// Service implements a filesystem-backed store.Service on top of viant/afs.
// Each record lives in records/<id>.json; the idempotency-key uniqueness
// index lives in keys/<sha256(key)>.json and points at the owning identity.
//
// Conditional semantics are guarded by an in-process mutex, the same model
// as a single-writer deployment: the store is durable across restarts but
// must not be shared by multiple engine processes. Multi-instance
// deployments need a backend with genuine compare-and-swap.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.Mutex
}

// keyIndex is the payload of an idempotency index entry.
type keyIndex struct {
	ID string `json:"id"`
}

// New creates a filesystem store rooted at baseURL (a local path or any
// afs-supported URL).
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fsService := afs.New()
	ctx := context.Background()
	if exists, _ := fsService.Exists(ctx, baseURL); !exists {
		if err := fsService.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fsService,
	}, nil
}

// Insert stores the record unless its idempotency key is already indexed.
func (s *Service) Insert(ctx context.Context, record *model.ApprovalRequest) (*model.ApprovalRequest, bool, error) {
	if record == nil {
		return nil, false, store.ErrNilEntity
	}
	if record.ID == "" {
		return nil, false, store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexURL := s.keyURL(record.IdempotencyKey)
	exists, err := s.fs.Exists(ctx, indexURL)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to check key index: %v", store.ErrUnavailable, err)
	}
	if exists {
		data, err := s.fs.DownloadWithURL(ctx, indexURL)
		if err != nil {
			return nil, false, fmt.Errorf("%w: failed to read key index: %v", store.ErrUnavailable, err)
		}
		var index keyIndex
		if err := json.Unmarshal(data, &index); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal key index: %w", err)
		}
		existing, err := s.load(ctx, index.ID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if err := s.save(ctx, record); err != nil {
		return nil, false, err
	}
	indexData, err := json.Marshal(&keyIndex{ID: record.ID})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal key index: %w", err)
	}
	if err := s.fs.Upload(ctx, indexURL, file.DefaultFileOsMode, bytes.NewReader(indexData)); err != nil {
		return nil, false, fmt.Errorf("%w: failed to write key index: %v", store.ErrUnavailable, err)
	}
	return record.Clone(), true, nil
}

// Update swaps the stored record when the revision still matches.
func (s *Service) Update(ctx context.Context, record *model.ApprovalRequest, expectedRevision int64) error {
	if record == nil {
		return store.ErrNilEntity
	}
	if record.ID == "" {
		return store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, record.ID)
	if err != nil {
		return err
	}
	if current.Revision != expectedRevision {
		return store.ErrStaleRevision
	}
	return s.save(ctx, record)
}

// Load returns a snapshot of the record by identity.
func (s *Service) Load(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	if id == "" {
		return nil, store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

// ListOverdue scans the records directory for pending records whose
// deadline is at or before cutoff.
func (s *Service) ListOverdue(ctx context.Context, cutoff time.Time) ([]*model.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordsURL := url.Join(s.baseURL, "records")
	if exists, _ := s.fs.Exists(ctx, recordsURL); !exists {
		return nil, nil
	}
	objects, err := s.fs.List(ctx, recordsURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list records: %v", store.ErrUnavailable, err)
	}

	var overdue []*model.ApprovalRequest
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read record %s: %v", store.ErrUnavailable, object.URL(), err)
		}
		var record model.ApprovalRequest
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", object.URL(), err)
		}
		if record.Overdue(cutoff) {
			overdue = append(overdue, &record)
		}
	}
	return overdue, nil
}

func (s *Service) load(ctx context.Context, id string) (*model.ApprovalRequest, error) {
	recordURL := s.recordURL(id)
	exists, err := s.fs.Exists(ctx, recordURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check record: %v", store.ErrUnavailable, err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, recordURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read record: %v", store.ErrUnavailable, err)
	}
	var record model.ApprovalRequest
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	return &record, nil
}

func (s *Service) save(ctx context.Context, record *model.ApprovalRequest) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.fs.Upload(ctx, s.recordURL(record.ID), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: failed to write record %s: %v", store.ErrUnavailable, record.ID, err)
	}
	return nil
}

func (s *Service) recordURL(id string) string {
	return url.Join(s.baseURL, path.Join("records", id+".json"))
}

// keyURL hashes the idempotency key so arbitrary caller-supplied tokens
// stay filesystem-safe.
func (s *Service) keyURL(key string) string {
	sum := sha256.Sum256([]byte(key))
	return url.Join(s.baseURL, path.Join("keys", hex.EncodeToString(sum[:])+".json"))
}

// Ensure Service implements store.Service.
var _ store.Service = (*Service)(nil)
