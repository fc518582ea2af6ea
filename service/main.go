package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/infra/produce"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/utils"
)

type Services struct {
	Media     *MediaService
	Products  *ProductService
	News      *NewsService
	Team      *TeamService
	Pages     *PageService
	Contact   *ContactService
	Auth      *AuthService
	Dashboard *DashboardService
}

func InitServices(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Services {
	env := cfg.EnvConfig

	owners := map[string]OwnerLookup{
		OwnerProduct:    repo.ProductRepo,
		OwnerTeamMember: repo.TeamMemberRepo,
		OwnerPage:       repo.PageMetadataRepo,
	}
	media := NewMediaService(repo.MediaAssetRepo, repo.PendingUploadRepo, infra.Storage, owners, MediaOptions{
		PresignTTL:            env.Storage.PresignTTL,
		PendingTTL:            env.Upload.PendingTTL,
		MaxBytes:              env.Upload.MaxBytes,
		BulkDeleteConcurrency: env.Upload.BulkDeleteConcurrency,
	}, infra.Logger)
	if infra.Produce != nil {
		media.WithDeleteQueue(infra.Produce.MediaService)
	}

	var notifier ContactNotifier
	if env.Contact.NotifyEmail != "" && infra.Produce != nil {
		notifier = &emailContactNotifier{email: infra.Produce.EmailService, recipient: env.Contact.NotifyEmail}
	}
	contact := NewContactService(repo.ContactMessageRepo, infra.Redis, notifier, ContactOptions{
		RateLimit:     env.Contact.RateLimit,
		RateWindow:    env.Contact.RateWindow,
		RateKeySecret: env.JWT.SecretKey,
	}, infra.Logger)

	issuer := func(userID uuid.UUID, email, role string) (string, time.Time, error) {
		return utils.GenerateToken(userID, email, role, env)
	}

	sources := DashboardSources{
		Products: repo.ProductRepo,
		News:     repo.NewsRepo,
		Team:     repo.TeamMemberRepo,
		Pages:    repo.PageMetadataRepo,
		Pending:  repo.PendingUploadRepo,
		Media:    repo.MediaAssetRepo,
		Contact:  repo.ContactMessageRepo,
	}
	if infra.Minio != nil && infra.Minio.Admin != nil {
		sources.Storage = infra.Minio
	}

	return &Services{
		Media:     media,
		Products:  NewProductService(repo.ProductRepo, media),
		News:      NewNewsService(repo.NewsRepo),
		Team:      NewTeamService(repo.TeamMemberRepo, media),
		Pages:     NewPageService(repo.PageMetadataRepo, media),
		Contact:   contact,
		Auth:      NewAuthService(repo.AdminUserRepo, issuer, infra.Logger),
		Dashboard: NewDashboardService(sources, infra.Logger),
	}
}

type emailContactNotifier struct {
	email     *produce.EmailService
	recipient string
}

func (n *emailContactNotifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) error {
	content := fmt.Sprintf("From: %s <%s>\nCompany: %s\nPhone: %s\n\n%s", msg.Name, msg.Email, msg.Company, msg.Phone, msg.Message)
	return n.email.SendEmailNotification(ctx, produce.EmailMessage{
		Recipient: n.recipient,
		Subject:   "New contact message from " + msg.Name,
		Content:   content,
		ReplyTo:   msg.Email,
		Metadata: map[string]string{
			"contact_message_id": msg.ID.String(),
		},
	})
}
