package share

import (
	"context"
	"errors"
	"fmt"
	"html"
	"kitchenlog/domain"
	"kitchenlog/entities"
	"kitchenlog/internal/utils/mailing"
	"kitchenlog/internal/utils/metrics"
	"kitchenlog/internal/utils/storage"
	"kitchenlog/pkg/recipe"
	"kitchenlog/pkg/user"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxRecipeName = 150

type (
	ShareService interface {
		ShareRecipe(ctx context.Context, ownerID string, recipeID string, req domain.ShareRecipeRequest) (domain.ShareRecipeResponse, error)
		RevokeShare(ctx context.Context, ownerID string, recipeID string, targetUserID string) error
		CloneRecipe(ctx context.Context, userID string, recipeID string) (domain.CloneRecipeResponse, error)
		GetInbox(ctx context.Context, userID string) ([]domain.SharedRecipeNotice, error)
		DismissNotice(ctx context.Context, userID string, noticeID string) error
	}

	shareService struct {
		db               *gorm.DB
		recipeRepository recipe.RecipeRepository
		userRepository   user.UserRepository
		noticeRepository NoticeRepository
		s3               storage.AwsS3
		mailer           mailing.Mailer
		appURL           string
		metrics          *metrics.Metrics
		log              *zap.Logger
		now              func() time.Time
	}
)

func NewShareService(
	db *gorm.DB,
	recipeRepository recipe.RecipeRepository,
	userRepository user.UserRepository,
	noticeRepository NoticeRepository,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	appURL string,
	metrics *metrics.Metrics,
	log *zap.Logger,
) ShareService {
	return &shareService{
		db:               db,
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		noticeRepository: noticeRepository,
		s3:               s3,
		mailer:           mailer,
		appURL:           appURL,
		metrics:          metrics,
		log:              log,
		now:              time.Now,
	}
}

// ShareRecipe adds the named user to the recipe whitelist. Sharing with the
// owner or with someone who already has access changes nothing. The inbox
// notice is written at most once per (receiver, recipe).
func (s *shareService) ShareRecipe(ctx context.Context, ownerID string, recipeID string, req domain.ShareRecipeRequest) (domain.ShareRecipeResponse, error) {
	uid, err := recipe.ParseUserID(ownerID)
	if err != nil {
		return domain.ShareRecipeResponse{}, err
	}
	username := strings.TrimSpace(req.Username)
	res := domain.ShareRecipeResponse{RecipeID: recipeID, Username: username}

	var (
		rec    *entities.Recipe
		target *entities.User
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = recipe.LoadRecipe(ctx, s.recipeRepository.WithTx(tx), recipeID)
		if err != nil {
			return err
		}
		if !recipe.IsOwner(uid, rec) {
			return domain.ErrUnauthorizedRecipeAccess
		}

		target, err = s.userRepository.WithTx(tx).GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrShareTargetNotFound
			}
			return err
		}
		if target.ID == rec.UserID {
			res.AlreadyHad = true
			return nil
		}

		added, err := s.recipeRepository.WithTx(tx).AddToWhitelist(ctx, rec.ID, target.ID)
		if err != nil {
			return err
		}
		if !added {
			res.AlreadyHad = true
			return nil
		}

		res.NoticeSent, err = s.noticeRepository.WithTx(tx).CreateNoticeIfAbsent(ctx, &entities.SharedRecipe{
			ReceiverID: target.ID,
			RecipeID:   rec.ID,
			SharerName: rec.User.Username,
			DateShared: s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return domain.ShareRecipeResponse{}, err
	}

	if !res.AlreadyHad {
		s.metrics.RecipeShared()
	}
	if res.NoticeSent {
		s.notify(target, rec)
	}
	return res, nil
}

// notify e-mails the receiver. Delivery problems never fail the share.
func (s *shareService) notify(target *entities.User, rec *entities.Recipe) {
	subject := fmt.Sprintf("%s shared a recipe with you", rec.User.Username)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p><b>%s</b> shared the recipe <b>%s</b> with you.</p><p><a href=\"%s/recipes/%s\">Open recipe</a></p>",
		html.EscapeString(target.Username),
		html.EscapeString(rec.User.Username),
		html.EscapeString(rec.Name),
		strings.TrimSuffix(s.appURL, "/"),
		rec.ID,
	)
	if err := s.mailer.SendMail(target.Email, subject, body); err != nil {
		s.log.Warn("send share notification",
			zap.String("recipe_id", rec.ID.String()),
			zap.String("receiver_id", target.ID.String()),
			zap.Error(err))
	}
}

// RevokeShare removes a user from the whitelist together with their notice.
func (s *shareService) RevokeShare(ctx context.Context, ownerID string, recipeID string, targetUserID string) error {
	uid, err := recipe.ParseUserID(ownerID)
	if err != nil {
		return err
	}
	targetID, err := uuid.Parse(targetUserID)
	if err != nil {
		return domain.ErrShareTargetNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.recipeRepository.WithTx(tx)
		rec, err := recipe.LoadRecipe(ctx, repo, recipeID)
		if err != nil {
			return err
		}
		if !recipe.IsOwner(uid, rec) {
			return domain.ErrUnauthorizedRecipeAccess
		}

		removed, err := repo.RemoveFromWhitelist(ctx, rec.ID, targetID)
		if err != nil {
			return err
		}
		if !removed {
			return domain.ErrShareTargetNotFound
		}
		return s.noticeRepository.WithTx(tx).DeleteNoticeFor(ctx, targetID, rec.ID)
	})
}

// CloneName is the display name given to a copy of another user's recipe.
func CloneName(ownerName, recipeName string) string {
	name := fmt.Sprintf("%s's %s (Clone)", ownerName, recipeName)
	if utf8.RuneCountInString(name) <= maxRecipeName {
		return name
	}
	return string([]rune(name)[:maxRecipeName])
}

// CloneRecipe copies a recipe the caller can view into their own collection.
// The copy starts with an empty whitelist and gets its own copy of an uploaded
// image, so the original owner replacing or deleting theirs leaves it intact.
func (s *shareService) CloneRecipe(ctx context.Context, userID string, recipeID string) (domain.CloneRecipeResponse, error) {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return domain.CloneRecipeResponse{}, err
	}
	rec, err := recipe.LoadRecipe(ctx, s.recipeRepository, recipeID)
	if err != nil {
		return domain.CloneRecipeResponse{}, err
	}
	if !recipe.CanClone(uid, rec) {
		return domain.CloneRecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	ownerName := ""
	if rec.User != nil {
		ownerName = rec.User.Username
	}
	clone := &entities.Recipe{
		ID:              uuid.New(),
		UserID:          uid,
		Name:            CloneName(ownerName, rec.Name),
		Category:        rec.Category,
		TimeMinutes:     rec.TimeMinutes,
		IngredientsJSON: rec.IngredientsJSON,
		Instructions:    rec.Instructions,
		Image:           rec.Image,
	}

	copiedKey := ""
	if key := s.s3.GetObjectKeyFromLink(rec.Image); key != "" {
		copiedKey, err = s.s3.CopyFile(ctx, key, clone.ID.String(), "recipes")
		if err != nil {
			s.log.Warn("copy recipe image for clone",
				zap.String("recipe_id", rec.ID.String()),
				zap.Error(err))
			copiedKey = ""
			clone.Image = ""
		} else {
			clone.Image = s.s3.GetPublicLinkKey(copiedKey)
		}
	}

	if err := s.recipeRepository.CreateRecipe(ctx, clone); err != nil {
		if copiedKey != "" {
			if delErr := s.s3.DeleteFile(ctx, copiedKey); delErr != nil {
				s.log.Warn("delete copied recipe image", zap.String("key", copiedKey), zap.Error(delErr))
			}
		}
		return domain.CloneRecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, clone.ID.String())
	if err != nil {
		return domain.CloneRecipeResponse{}, err
	}
	s.metrics.RecipeCloned()
	return domain.CloneRecipeResponse{
		NewRecipeID: created.ID.String(),
		Recipe:      recipe.ToRecipe(created),
	}, nil
}

func (s *shareService) GetInbox(ctx context.Context, userID string) ([]domain.SharedRecipeNotice, error) {
	notices, err := s.noticeRepository.GetNoticesByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.SharedRecipeNotice, 0, len(notices))
	for _, n := range notices {
		item := domain.SharedRecipeNotice{
			ID:         n.ID.String(),
			RecipeID:   n.RecipeID.String(),
			SharerName: n.SharerName,
			DateShared: n.DateShared,
		}
		if n.Recipe != nil {
			item.RecipeName = n.Recipe.Name
		}
		res = append(res, item)
	}
	return res, nil
}

// DismissNotice deletes one of the caller's notices. Other users' notices are
// reported as missing.
func (s *shareService) DismissNotice(ctx context.Context, userID string, noticeID string) error {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return err
	}
	if _, err := uuid.Parse(noticeID); err != nil {
		return domain.ErrNoticeNotFound
	}

	notice, err := s.noticeRepository.GetNoticeByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoticeNotFound
		}
		return err
	}
	if notice.ReceiverID != uid {
		return domain.ErrNoticeNotFound
	}
	return s.noticeRepository.DeleteNotice(ctx, noticeID)
}
