package handlers

import (
	"kitchenlog/domain"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type (
	RecipeHandler interface {
		GetMyRecipes(c *fiber.Ctx) error
		GetSharedWithMe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		UploadRecipeImage(c *fiber.Ctx) error
	}

	recipeHandler struct {
		errorResponder
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate, log *zap.Logger) RecipeHandler {
	return &recipeHandler{
		errorResponder: errorResponder{log: log},
		recipeService:  recipeService,
		validator:      validator,
	}
}

func (h *recipeHandler) GetMyRecipes(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	recipes, count, err := h.recipeService.GetMyRecipes(c.Context(), currentUserID(c), page, limit)
	if err != nil {
		return h.fail(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{
		"recipes":    recipes,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetSharedWithMe(c *fiber.Ctx) error {
	recipes, err := h.recipeService.GetSharedWithMe(c.Context(), currentUserID(c))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetShared, err)
	}
	return presenters.SuccessResponse(c, recipes, fiber.StatusOK, domain.MessageSuccessGetShared)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), currentUserID(c), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), currentUserID(c), c.Params("id"), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

// DeleteRecipe accepts ?cascade=true to remove the recipe's cooking logs as well.
func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	cascade := c.QueryBool("cascade", false)

	if err := h.recipeService.DeleteRecipe(c.Context(), currentUserID(c), c.Params("id"), cascade); err != nil {
		return h.fail(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) UploadRecipeImage(c *fiber.Ctx) error {
	req := new(domain.UploadRecipeImageRequest)
	file, err := c.FormFile("image")
	if err != nil {
		return invalidBody(c, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedUploadImage, err)
	}

	res, err := h.recipeService.UploadRecipeImage(c.Context(), currentUserID(c), c.Params("id"), req.Image)
	if err != nil {
		return h.fail(c, domain.MessageFailedUploadImage, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
