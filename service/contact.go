package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/utils"
)

type ContactMessageRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
	MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, onlyUnhandled bool, q repository.ListQuery) ([]entity.ContactMessage, int64, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// ContactNotifier tells the site owner about a new message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg *entity.ContactMessage) error
}

type ContactOptions struct {
	RateLimit  int64
	RateWindow time.Duration
	// RateKeySecret keys the HMAC that hides client addresses in limiter keys.
	RateKeySecret string
}

type ContactInput struct {
	Name     string
	Email    string
	Company  string
	Phone    string
	Message  string
	RemoteIP string
}

var contactSortColumns = map[string]string{
	"createdAt": "created_at",
}

type ContactService struct {
	messages ContactMessageRepository
	limiter  RateLimiter
	notifier ContactNotifier
	opts     ContactOptions
	logger   Logger
	newID    func() uuid.UUID
}

func NewContactService(messages ContactMessageRepository, limiter RateLimiter, notifier ContactNotifier, opts ContactOptions, logger Logger) *ContactService {
	return &ContactService{
		messages: messages,
		limiter:  limiter,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		newID:    uuid.New,
	}
}

// Submit stores a message from the public site. A limiter outage lets the message through;
// a notification failure is logged and does not fail the request.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*entity.ContactMessage, error) {
	name, err := requireText("name", in.Name, 255)
	if err != nil {
		return nil, err
	}
	email, err := requireText("email", in.Email, 255)
	if err != nil {
		return nil, err
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, BadRequest("email is invalid")
	}
	company, err := optionalText("company", in.Company, 255)
	if err != nil {
		return nil, err
	}
	phone, err := optionalText("phone", in.Phone, 64)
	if err != nil {
		return nil, err
	}
	message, err := requireText("message", in.Message, 5000)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil && s.opts.RateLimit > 0 && in.RemoteIP != "" {
		key := "contact:rate:" + utils.ComputeHMACSHA256(s.opts.RateKeySecret, in.RemoteIP)
		allowed, err := s.limiter.Allow(ctx, key, s.opts.RateLimit, s.opts.RateWindow)
		if err != nil {
			s.logger.WarningWithContextf(ctx, "[Contact] Rate limiter unavailable: %v", err)
		} else if !allowed {
			return nil, BadRequest(fmt.Sprintf("too many messages, try again in %s", s.opts.RateWindow))
		}
	}

	msg := &entity.ContactMessage{
		ID:       s.newID(),
		Name:     name,
		Email:    strings.ToLower(email),
		Company:  company,
		Phone:    phone,
		Message:  message,
		RemoteIP: in.RemoteIP,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, Internal("failed to save message", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyContact(ctx, msg); err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Contact] Failed to enqueue notification for %s", msg.ID)
		}
	}
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, caller Caller, onlyUnhandled bool, params ListParams) (*Page[entity.ContactMessage], error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	q, err := params.resolve(SortColumns{Columns: contactSortColumns, Default: "createdAt", DefaultDesc: true})
	if err != nil {
		return nil, err
	}
	messages, total, err := s.messages.List(ctx, onlyUnhandled, q.ListQuery)
	if err != nil {
		return nil, Internal("failed to list messages", err)
	}
	return newPage(messages, total, q.page, q.pageSize), nil
}

func (s *ContactService) MarkHandled(ctx context.Context, caller Caller, id uuid.UUID, handled bool) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if err := s.messages.MarkHandled(ctx, id, handled); err != nil {
		return notFoundOr(err, "message not found", "failed to update message")
	}
	return nil
}

func (s *ContactService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := caller.Require(); err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return notFoundOr(err, "message not found", "failed to delete message")
	}
	return nil
}
