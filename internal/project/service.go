// Package project owns persisted projects and runs edit-engine operations
// against their timelines under a per-project edit lock, so the
// read-snapshot, compute, write-back sequence around the stateless engine is
// atomic for each project.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/qcut/timeline-agent/internal/autoedit"
	"github.com/qcut/timeline-agent/internal/engine"
	"github.com/qcut/timeline-agent/internal/selection"
	"github.com/qcut/timeline-agent/internal/timeline"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidTimeline = errors.New("invalid timeline")
)

type Service struct {
	repo      Repository
	selection *selection.Tracker
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository, sel *selection.Tracker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		repo:      repo,
		selection: sel,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// editLock returns the exclusive edit lock for one project. The lock covers
// load, engine call, and persist; concurrent edits to different projects do
// not contend.
func (s *Service) editLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[projectID] = lock
	}
	return lock
}

func (s *Service) CreateProject(ctx context.Context, name string) (*Project, error) {
	now := time.Now().UTC()
	p := &Project{ID: NewID(), Name: name, CreatedAt: now, UpdatedAt: now}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	tl := &timeline.Timeline{Name: name, Width: 1920, Height: 1080, FPS: 30}
	if err := s.repo.SaveTimeline(ctx, p.ID, tl); err != nil {
		return nil, fmt.Errorf("save initial timeline: %w", err)
	}

	s.logger.Info("project created", "project_id", p.ID, "name", name)
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.selection.Clear(id)

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()

	s.logger.Info("project deleted", "project_id", id)
	return nil
}

func (s *Service) GetTimeline(ctx context.Context, projectID string) (*timeline.Timeline, error) {
	tl, err := s.repo.GetTimeline(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if tl == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	return tl, nil
}

// ReplaceTimeline swaps in a caller-built snapshot. Element creation happens
// outside the engine (import, AI insertion); this is its entry point, so the
// snapshot is validated against the structural invariants before storing.
func (s *Service) ReplaceTimeline(ctx context.Context, projectID string, tl *timeline.Timeline) error {
	if err := tl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeline, err)
	}

	lock := s.editLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}
	return s.persist(ctx, projectID, tl, nil)
}

// Cut applies a batch cut to one element.
func (s *Service) Cut(ctx context.Context, projectID, elementID string, cuts []engine.Interval, ripple bool) (*engine.CutReport, error) {
	var report *engine.CutReport
	err := s.edit(ctx, projectID, func(tl *timeline.Timeline) (*timeline.Timeline, []string, error) {
		out, r, err := engine.ApplyCuts(tl, elementID, cuts, ripple)
		if err != nil {
			return nil, nil, err
		}
		report = r
		return out, r.RetiredIDs, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("batch cut applied", "project_id", projectID, "element_id", elementID,
		"cuts", report.CutsApplied, "removed_duration", report.TotalRemovedDuration)
	return report, nil
}

// DeleteRange deletes a time range across the selected tracks.
func (s *Service) DeleteRange(ctx context.Context, projectID string, req engine.RangeDeleteRequest) (*engine.RangeDeleteReport, error) {
	var report *engine.RangeDeleteReport
	err := s.edit(ctx, projectID, func(tl *timeline.Timeline) (*timeline.Timeline, []string, error) {
		out, r, err := engine.DeleteRange(tl, req)
		if err != nil {
			return nil, nil, err
		}
		report = r
		return out, r.RetiredIDs, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("range deleted", "project_id", projectID,
		"start", req.StartTime, "end", req.EndTime,
		"deleted", report.DeletedElements, "split", report.SplitElements)
	return report, nil
}

// Split splits or trims one element at an absolute time.
func (s *Service) Split(ctx context.Context, projectID, elementID string, splitTime float64, mode engine.SplitMode) (*engine.SplitReport, error) {
	var report *engine.SplitReport
	err := s.edit(ctx, projectID, func(tl *timeline.Timeline) (*timeline.Timeline, []string, error) {
		out, r, err := engine.SplitElement(tl, elementID, splitTime, mode)
		if err != nil {
			return nil, nil, err
		}
		report = r
		return out, r.RetiredIDs, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Move relocates one element.
func (s *Service) Move(ctx context.Context, projectID string, req engine.MoveRequest) (*engine.MoveReport, error) {
	var report *engine.MoveReport
	err := s.edit(ctx, projectID, func(tl *timeline.Timeline) (*timeline.Timeline, []string, error) {
		out, r, err := engine.MoveElement(tl, req)
		if err != nil {
			return nil, nil, err
		}
		report = r
		return out, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Arrange repacks one track.
func (s *Service) Arrange(ctx context.Context, projectID string, req engine.ArrangeRequest) (*engine.ArrangeReport, error) {
	var report *engine.ArrangeReport
	err := s.edit(ctx, projectID, func(tl *timeline.Timeline) (*timeline.Timeline, []string, error) {
		out, r, err := engine.ArrangeTrack(tl, req)
		if err != nil {
			return nil, nil, err
		}
		report = r
		return out, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// AutoCut applies externally detected spans as one batch cut per element.
func (s *Service) AutoCut(ctx context.Context, projectID string, targets []autoedit.Target, ripple bool) (*autoedit.Report, error) {
	var report *autoedit.Report
	err := s.edit(ctx, projectID, func(tl *timeline.Timeline) (*timeline.Timeline, []string, error) {
		out, r, err := autoedit.Apply(tl, targets, ripple)
		if err != nil {
			return nil, nil, err
		}
		report = r
		return out, r.RetiredIDs, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("auto-edit applied", "project_id", projectID,
		"elements", report.ElementsEdited, "removed_duration", report.TotalRemovedDuration)
	return report, nil
}

// Selection returns the current selection for a project.
func (s *Service) Selection(projectID string) []selection.Ref {
	return s.selection.Get(projectID)
}

// SetSelection replaces the selection for a project.
func (s *Service) SetSelection(projectID string, refs []selection.Ref) {
	s.selection.Set(projectID, refs)
}

// edit runs one engine operation under the project's edit lock: load the
// snapshot, transform, persist, invalidate stale selections. A failed
// transform leaves the stored timeline untouched.
func (s *Service) edit(ctx context.Context, projectID string, fn func(*timeline.Timeline) (*timeline.Timeline, []string, error)) error {
	lock := s.editLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	tl, err := s.GetTimeline(ctx, projectID)
	if err != nil {
		return err
	}

	out, retired, err := fn(tl)
	if err != nil {
		return err
	}

	return s.persist(ctx, projectID, out, retired)
}

func (s *Service) persist(ctx context.Context, projectID string, tl *timeline.Timeline, retired []string) error {
	if err := s.repo.SaveTimeline(ctx, projectID, tl); err != nil {
		return fmt.Errorf("save timeline: %w", err)
	}
	if err := s.repo.TouchProject(ctx, projectID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to touch project", "project_id", projectID, "error", err)
	}
	s.selection.Invalidate(projectID, retired)
	return nil
}
