package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	"github.com/polkiloo/ashconsole/internal/server/http/dto"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

const fileField = "File"

// QuoteHandler serves the public quote form.
type QuoteHandler struct {
	facade QuoteFacade
}

// NewQuoteHandler creates QuoteHandler instance.
func NewQuoteHandler(facade QuoteFacade) *QuoteHandler {
	return &QuoteHandler{facade: facade}
}

// Catalog handles GET /.
func (h *QuoteHandler) Catalog(c *gin.Context) {
	catalog := h.facade.Catalog()
	c.JSON(http.StatusOK, dto.CatalogResponse{
		Services:        catalog.Services,
		Languages:       catalog.Languages,
		WorkingLanguage: catalog.WorkingLanguage,
		Contacts:        catalog.Contacts,
	})
}

// Get handles GET /GetQuote.
func (h *QuoteHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, toQuoteResponse(h.facade.Quote()))
}

// Edit handles PATCH /GetQuote.
func (h *QuoteHandler) Edit(c *gin.Context) {
	var req dto.QuoteFields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid form payload"})
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(h.facade.EditQuote(toQuoteEdit(req))))
}

// Submit handles POST /GetQuote. The body is multipart/form-data carrying
// any field edits plus exactly one File part.
func (h *QuoteHandler) Submit(c *gin.Context) {
	if limit := h.facade.MaxUploadBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+(1<<20))
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(c, domainErrors.NewValidationError("upload exceeds the size limit"))
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "expected a multipart form"})
		return
	}
	defer func() { _ = form.RemoveAll() }()

	var fields dto.QuoteFields
	if err := c.ShouldBindWith(&fields, binding.FormMultipart); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid form payload"})
		return
	}
	h.facade.EditQuote(toQuoteEdit(fields))

	files := form.File[fileField]
	if len(files) > 1 {
		h.reject(c, &domainErrors.ValidationError{
			Message: "Please correct the highlighted fields",
			Fields:  map[string][]string{"file": {"Exactly one file is required"}},
		})
		return
	}

	var attachment *repository.Attachment
	if len(files) == 1 {
		file, err := openAttachment(files[0])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "unreadable file"})
			return
		}
		defer file.Close()
		attachment = &repository.Attachment{Name: files[0].Filename, Size: files[0].Size, Content: file}
	}

	order, err := h.facade.SubmitQuote(c.Request.Context(), attachment)
	if err != nil {
		h.reject(c, err)
		return
	}

	resp := toQuoteResponse(h.facade.Quote())
	created := toOrderResponse(*order)
	resp.Order = &created
	c.JSON(http.StatusCreated, resp)
}

// DismissBanner handles DELETE /GetQuote/banner.
func (h *QuoteHandler) DismissBanner(c *gin.Context) {
	h.facade.DismissQuoteBanner()
	c.Status(http.StatusNoContent)
}

// reject writes the form state with the error status so the banner and
// field errors render together.
func (h *QuoteHandler) reject(c *gin.Context, err error) {
	status, body := errorStatus(err)
	resp := toQuoteResponse(h.facade.Quote())
	resp.Fields = body.Fields
	if resp.Banner == nil {
		resp.Banner = &dto.Banner{Kind: string(usecase.BannerError), Text: body.Message}
	}
	c.AbortWithStatusJSON(status, resp)
}

func openAttachment(fh *multipart.FileHeader) (multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return file, nil
}

func toQuoteEdit(f dto.QuoteFields) usecase.QuoteEdit {
	return usecase.QuoteEdit{
		FullName:         f.FullName,
		Email:            f.Email,
		Phone:            f.Phone,
		ServiceType:      f.ServiceType,
		WordCount:        f.WordCount,
		PageCount:        f.PageCount,
		Deadline:         f.Deadline,
		Notes:            f.AdditionalNotes,
		PreferredContact: f.PreferredContact,
		LanguageFrom:     f.LanguagePairFrom,
		LanguageTo:       f.LanguagePairTo,
	}
}

func toQuoteResponse(state usecase.QuoteState) dto.QuoteResponse {
	d := state.Draft
	resp := dto.QuoteResponse{
		Draft: dto.QuoteDraft{
			FullName:         d.FullName,
			Email:            d.Email,
			Phone:            d.Phone,
			ServiceType:      d.ServiceType,
			LanguagePairFrom: d.LanguageFrom,
			LanguagePairTo:   d.LanguageTo,
			WordCount:        d.WordCount,
			PageCount:        d.PageCount,
			Deadline:         d.Deadline,
			AdditionalNotes:  d.Notes,
			PreferredContact: d.PreferredContact,
		},
		Submitting: state.Submitting,
	}
	if state.Banner != nil {
		resp.Banner = &dto.Banner{Kind: string(state.Banner.Kind), Text: state.Banner.Text}
	}
	return resp
}
