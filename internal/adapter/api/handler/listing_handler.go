package handler

import (
	"encoding/json"
	"strconv"

	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/response"
	"unimarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

// listingInputFromForm reads the multipart form fields of the listing editor.
// Attributes arrive as a JSON-encoded object in the "attributes" field.
func listingInputFromForm(c echo.Context) (usecase.ListingInput, error) {
	var input usecase.ListingInput

	input.CategoryID = c.FormValue("category_id")
	input.Title = c.FormValue("title")
	input.Description = c.FormValue("description")
	input.Currency = c.FormValue("currency")
	input.Condition = c.FormValue("condition")
	input.Negotiable = c.FormValue("negotiable") == "true"

	if priceStr := c.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return input, errors.BadRequest("Invalid price value", err)
		}
		input.Price = price
	}

	if attrs := c.FormValue("attributes"); attrs != "" {
		if err := json.Unmarshal([]byte(attrs), &input.Attributes); err != nil {
			return input, errors.BadRequest("Invalid attributes payload", err)
		}
	}

	return input, nil
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	userID := c.Get("uid").(string)
	email, _ := c.Get("email").(string)

	input, err := listingInputFromForm(c)
	if err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid multipart form", err))
	}

	var images, videos []usecase.MediaUpload
	var opened []*formUpload
	defer func() {
		for _, upload := range opened {
			upload.close()
		}
	}()

	for _, fileHeader := range form.File["images"] {
		upload, err := uploadFromHeader(fileHeader)
		if err != nil {
			return response.Error(c, err)
		}
		opened = append(opened, upload)
		images = append(images, upload.MediaUpload)
	}
	for _, fileHeader := range form.File["videos"] {
		upload, err := uploadFromHeader(fileHeader)
		if err != nil {
			return response.Error(c, err)
		}
		opened = append(opened, upload)
		videos = append(videos, upload.MediaUpload)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), userID, email, input, images, videos)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	userID := c.Get("uid").(string)
	listingID := c.Param("listingId")

	var input usecase.ListingInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), userID, listingID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	userID := c.Get("uid").(string)
	listingID := c.Param("listingId")

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), userID, listingID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

func (h *ListingHandler) SetPrimaryImage(c echo.Context) error {
	userID := c.Get("uid").(string)
	listingID := c.Param("listingId")
	imageID := c.Param("imageId")

	if err := h.listingUseCase.SetPrimaryImage(c.Request().Context(), userID, listingID, imageID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "updated"})
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	userID := c.Get("uid").(string)

	listings, err := h.listingUseCase.ListBySeller(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) Browse(c echo.Context) error {
	pagination := utils.GetPageParams(c)

	listings, total, err := h.listingUseCase.Browse(c.Request().Context(), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) GetDetail(c echo.Context) error {
	listingID := c.Param("listingId")
	if listingID == "" {
		return response.Error(c, errors.BadRequest("Listing ID is required", nil))
	}

	detail, err := h.listingUseCase.GetDetail(c.Request().Context(), listingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ListingHandler) ListCategories(c echo.Context) error {
	categories, err := h.listingUseCase.ListCategories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, categories)
}
