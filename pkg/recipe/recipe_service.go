package recipe

import (
	"context"
	"errors"
	"fmt"
	"kitchenlog/domain"
	"kitchenlog/entities"
	"kitchenlog/internal/utils/storage"
	"kitchenlog/pkg/ingredients"
	"kitchenlog/pkg/streak"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, userID string, req domain.RecipeRequest) (domain.Recipe, error)
		GetMyRecipes(ctx context.Context, userID string, page, limit int) ([]domain.Recipe, int64, error)
		GetSharedWithMe(ctx context.Context, userID string) ([]domain.Recipe, error)
		GetRecipeDetail(ctx context.Context, userID string, recipeID string) (domain.RecipeDetail, error)
		UpdateRecipe(ctx context.Context, userID string, recipeID string, req domain.RecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, userID string, recipeID string, cascade bool) error
		UploadRecipeImage(ctx context.Context, userID string, recipeID string, file *multipart.FileHeader) (domain.Recipe, error)
	}

	recipeService struct {
		db               *gorm.DB
		recipeRepository RecipeRepository
		s3               storage.AwsS3
		log              *zap.Logger
	}

	recipeFields struct {
		name         string
		category     string
		time         int
		ingredients  []string
		instructions string
		image        string
	}
)

func NewRecipeService(db *gorm.DB, recipeRepository RecipeRepository, s3 storage.AwsS3, log *zap.Logger) RecipeService {
	return &recipeService{
		db:               db,
		recipeRepository: recipeRepository,
		s3:               s3,
		log:              log,
	}
}

// ToRecipe renders a recipe row. The owner must be preloaded for Author.
func ToRecipe(r *entities.Recipe) domain.Recipe {
	res := domain.Recipe{
		ID:           r.ID.String(),
		UserID:       r.UserID.String(),
		Name:         r.Name,
		Category:     r.Category,
		Time:         r.TimeMinutes,
		Ingredients:  ingredients.Deserialize(r.IngredientsJSON),
		Instructions: r.Instructions,
		Image:        r.Image,
		CreatedAt:    r.CreatedAt,
	}
	if r.User != nil {
		res.Author = r.User.Username
	}
	return res
}

// ParseUserID converts the authenticated user id taken from the token.
func ParseUserID(userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	return id, nil
}

// LoadRecipe fetches a recipe with its owner and whitelist. Malformed ids are
// reported as not found.
func LoadRecipe(ctx context.Context, repo RecipeRepository, recipeID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := repo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func validateRecipe(req domain.RecipeRequest) (recipeFields, error) {
	f := recipeFields{
		name:         strings.TrimSpace(req.Name),
		category:     strings.TrimSpace(req.Category),
		time:         req.Time,
		instructions: strings.TrimSpace(req.Instructions),
		image:        strings.TrimSpace(req.Image),
	}
	switch {
	case f.name == "":
		return f, fmt.Errorf("%w: name", domain.ErrMissingField)
	case f.category == "":
		return f, fmt.Errorf("%w: category", domain.ErrMissingField)
	case f.instructions == "":
		return f, fmt.Errorf("%w: instructions", domain.ErrMissingField)
	case f.time <= 0:
		return f, domain.ErrInvalidRecipeTime
	}

	list, err := ingredients.Parse(req.Ingredients)
	if err != nil {
		return f, err
	}
	if len(list) == 0 {
		return f, domain.ErrIngredientsRequired
	}
	f.ingredients = list
	return f, nil
}

func (f recipeFields) apply(r *entities.Recipe) {
	r.Name = f.name
	r.Category = f.category
	r.TimeMinutes = f.time
	r.IngredientsJSON = ingredients.Serialize(f.ingredients)
	r.Instructions = f.instructions
	r.Image = f.image
}

func (s *recipeService) CreateRecipe(ctx context.Context, userID string, req domain.RecipeRequest) (domain.Recipe, error) {
	uid, err := ParseUserID(userID)
	if err != nil {
		return domain.Recipe{}, err
	}
	fields, err := validateRecipe(req)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{UserID: uid}
	fields.apply(recipe)
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, recipe.ID.String())
	if err != nil {
		return domain.Recipe{}, err
	}
	return ToRecipe(created), nil
}

func (s *recipeService) GetMyRecipes(ctx context.Context, userID string, page, limit int) ([]domain.Recipe, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipesByOwner(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]domain.Recipe, 0, len(recipes))
	for i := range recipes {
		res = append(res, ToRecipe(&recipes[i]))
	}
	return res, count, nil
}

func (s *recipeService) GetSharedWithMe(ctx context.Context, userID string) ([]domain.Recipe, error) {
	recipes, err := s.recipeRepository.GetRecipesSharedWith(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Recipe, 0, len(recipes))
	for i := range recipes {
		res = append(res, ToRecipe(&recipes[i]))
	}
	return res, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, userID string, recipeID string) (domain.RecipeDetail, error) {
	uid, err := ParseUserID(userID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	recipe, err := LoadRecipe(ctx, s.recipeRepository, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if !CanView(uid, recipe) {
		return domain.RecipeDetail{}, domain.ErrUnauthorizedRecipeAccess
	}

	logCount, err := s.recipeRepository.CountLogs(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	detail := domain.RecipeDetail{
		Recipe:    ToRecipe(recipe),
		Whitelist: []string{},
		CanEdit:   CanEdit(uid, recipe),
		CanDelete: IsOwner(uid, recipe),
		CanClone:  CanClone(uid, recipe),
		LogCount:  logCount,
	}
	if detail.CanEdit {
		for _, w := range recipe.Whitelist {
			if w.User != nil {
				detail.Whitelist = append(detail.Whitelist, w.User.Username)
			}
		}
	}
	return detail, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID string, recipeID string, req domain.RecipeRequest) (domain.Recipe, error) {
	uid, err := ParseUserID(userID)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe, err := LoadRecipe(ctx, s.recipeRepository, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if !CanEdit(uid, recipe) {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}

	fields, err := validateRecipe(req)
	if err != nil {
		return domain.Recipe{}, err
	}
	if fields.image == "" {
		fields.image = recipe.Image
	}
	fields.apply(recipe)
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, err
	}
	return ToRecipe(recipe), nil
}

// DeleteRecipe removes a recipe the caller owns. Recipes with cooking logs are
// refused unless cascade is set, in which case the logs, notices and whitelist
// go too and every affected user's streak is rebuilt in the same transaction.
func (s *recipeService) DeleteRecipe(ctx context.Context, userID string, recipeID string, cascade bool) error {
	uid, err := ParseUserID(userID)
	if err != nil {
		return err
	}

	var image string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.recipeRepository.WithTx(tx)

		recipe, err := LoadRecipe(ctx, repo, recipeID)
		if err != nil {
			return err
		}
		logCount, err := repo.CountLogs(ctx, recipeID)
		if err != nil {
			return err
		}
		if err := CanDelete(uid, recipe, logCount); err != nil {
			if !cascade || !errors.Is(err, domain.ErrRecipeHasLogs) {
				return err
			}
		}

		affected, err := repo.ListLogUserIDs(ctx, recipeID)
		if err != nil {
			return err
		}
		if err := repo.DeleteLogs(ctx, recipeID); err != nil {
			return err
		}
		if err := repo.DeleteNotices(ctx, recipeID); err != nil {
			return err
		}
		if err := repo.ClearWhitelist(ctx, recipeID); err != nil {
			return err
		}
		if err := repo.DeleteRecipe(ctx, recipeID); err != nil {
			return err
		}
		if err := streak.NewStore(tx).RecomputeAll(ctx, affected); err != nil {
			return err
		}

		image = recipe.Image
		if len(affected) > 0 {
			s.log.Info("recipe deleted with cooking logs",
				zap.String("recipe_id", recipeID),
				zap.Int64("logs", logCount),
				zap.Int("affected_users", len(affected)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deleteStoredImage(ctx, image)
	return nil
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, userID string, recipeID string, file *multipart.FileHeader) (domain.Recipe, error) {
	uid, err := ParseUserID(userID)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe, err := LoadRecipe(ctx, s.recipeRepository, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if !CanEdit(uid, recipe) {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}

	key, err := s.s3.UploadFile(ctx, recipeID, file, "recipes", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.Recipe{}, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
		}
		return domain.Recipe{}, err
	}

	old := recipe.Image
	recipe.Image = s.s3.GetPublicLinkKey(key)
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, err
	}
	s.deleteStoredImage(ctx, old)
	return ToRecipe(recipe), nil
}

// deleteStoredImage removes an image this service uploaded earlier. Inline
// data URIs and external links are left alone.
func (s *recipeService) deleteStoredImage(ctx context.Context, link string) {
	key := s.s3.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		s.log.Warn("delete recipe image", zap.String("key", key), zap.Error(err))
	}
}
