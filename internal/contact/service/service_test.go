package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rishta/internal/contact/models"
	"rishta/internal/contact/store"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/audit"
	"rishta/pkg/requestcontext"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, e audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type ContactServiceSuite struct {
	suite.Suite
	store     *store.InMemory
	publisher *recordingPublisher
	service   *Service
	ctx       context.Context
	now       time.Time
}

func TestContactServiceSuite(t *testing.T) {
	suite.Run(t, new(ContactServiceSuite))
}

func (s *ContactServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.publisher = &recordingPublisher{}
	s.service = New(s.store, WithAuditPublisher(s.publisher))
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func submitRequest(target int64, requester, tx string) *models.SubmitRequest {
	return &models.SubmitRequest{
		TargetProfileID:   target,
		RequesterIdentity: requester,
		RequesterName:     "Carol",
		RequesterMobile:   "+8801900000000",
		PaymentReference:  tx,
	}
}

func (s *ContactServiceSuite) TestSubmit() {
	s.Run("records a pending request", func() {
		c, err := s.service.Submit(s.ctx, submitRequest(2, " Carol@Example.com ", "tx_1"))
		s.Require().NoError(err)
		s.Equal(models.StatusPending, c.Status)
		s.Equal("carol@example.com", c.RequesterIdentity)
		s.Equal(int64(2), c.TargetProfileID)
		s.Equal("tx_1", c.PaymentReference)
		s.Equal(s.now, c.RequestedAt)
		s.NotEqual(uuid.Nil, c.ID)
	})

	s.Run("same requester and target conflicts", func() {
		_, err := s.service.Submit(s.ctx, submitRequest(2, "carol@example.com", "tx_2"))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("another target is allowed", func() {
		_, err := s.service.Submit(s.ctx, submitRequest(3, "carol@example.com", "tx_3"))
		s.NoError(err)
	})

	s.Run("missing fields are rejected", func() {
		for name, req := range map[string]*models.SubmitRequest{
			"target":  submitRequest(0, "dan@example.com", "tx"),
			"email":   submitRequest(2, "", "tx"),
			"payment": submitRequest(2, "dan@example.com", " "),
		} {
			_, err := s.service.Submit(s.ctx, req)
			s.True(dErrors.HasCode(err, dErrors.CodeBadRequest), name)
		}
	})
}

func (s *ContactServiceSuite) TestApproveIsIdempotent() {
	c, err := s.service.Submit(s.ctx, submitRequest(2, "carol@example.com", "tx_1"))
	s.Require().NoError(err)

	approved, err := s.service.Approve(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.Status)
	s.Require().NotNil(approved.ApprovedAt)

	again, err := s.service.Approve(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, again.Status)

	approvals := 0
	for _, e := range s.publisher.events {
		if e.Action == string(audit.EventContactApproved) {
			approvals++
		}
	}
	s.Equal(1, approvals)

	_, err = s.service.Approve(s.ctx, uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ContactServiceSuite) TestListings() {
	_, err := s.service.Submit(s.ctx, submitRequest(2, "carol@example.com", "tx_1"))
	s.Require().NoError(err)
	_, err = s.service.Submit(s.ctx, submitRequest(2, "dan@example.com", "tx_2"))
	s.Require().NoError(err)
	_, err = s.service.Submit(s.ctx, submitRequest(5, "carol@example.com", "tx_3"))
	s.Require().NoError(err)

	byTarget, err := s.service.ListByTarget(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(byTarget, 2)

	mine, err := s.service.ListByRequester(s.ctx, "CAROL@example.com")
	s.Require().NoError(err)
	s.Len(mine, 2)

	all, err := s.service.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)

	none, err := s.service.ListByTarget(s.ctx, 99)
	s.Require().NoError(err)
	s.Empty(none)

	_, err = s.service.ListByTarget(s.ctx, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ContactServiceSuite) TestRemove() {
	c, err := s.service.Submit(s.ctx, submitRequest(2, "carol@example.com", "tx_1"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.Remove(s.ctx, c.ID))
	err = s.service.Remove(s.ctx, c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.Submit(s.ctx, submitRequest(2, "carol@example.com", "tx_9"))
	s.NoError(err, "pair is free again after removal")
}

func (s *ContactServiceSuite) TestRenameRequester() {
	_, err := s.service.Submit(s.ctx, submitRequest(2, "carol@example.com", "tx_1"))
	s.Require().NoError(err)
	_, err = s.service.Submit(s.ctx, submitRequest(3, "carol@example.com", "tx_2"))
	s.Require().NoError(err)

	n, err := s.service.RenameRequester(s.ctx, "carol@example.com", "Carol Khan")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	mine, err := s.service.ListByRequester(s.ctx, "carol@example.com")
	s.Require().NoError(err)
	for _, c := range mine {
		s.Equal("Carol Khan", c.Requester.Name)
	}

	_, err = s.service.RenameRequester(s.ctx, "carol@example.com", "Carol Khan")
	s.True(dErrors.HasCode(err, dErrors.CodeNoChange))

	_, err = s.service.RenameRequester(s.ctx, "nobody@example.com", "X")
	s.True(dErrors.HasCode(err, dErrors.CodeNoChange))

	_, err = s.service.RenameRequester(s.ctx, "carol@example.com", "  ")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ContactServiceSuite) TestConcurrentDuplicateSubmit() {
	const workers = 50
	var (
		wg        sync.WaitGroup
		created   atomic.Int32
		conflicts atomic.Int32
	)
	for i := range workers {
		wg.Go(func() {
			_, err := s.service.Submit(s.ctx, submitRequest(7, "race@example.com", fmt.Sprintf("tx_%d", i)))
			switch {
			case err == nil:
				created.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			}
		})
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(workers-1), conflicts.Load())
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := ParseID(" " + id.String() + " ")
	if err != nil || got != id {
		t.Fatalf("ParseID(%q) = %v, %v", id, got, err)
	}
	if _, err := ParseID("42"); !dErrors.HasCode(err, dErrors.CodeBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}
