package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/services"
)

const maxUploadBytes = 64 << 20

type assignmentInput struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=255"`
	Description string `form:"description" json:"description" validate:"max=5000"`
	DueDate     string `form:"dueDate" json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	MaxScore    int    `form:"maxScore" json:"maxScore" validate:"min=0"`
	IsActive    bool   `form:"isActive" json:"isActive"`
}

type materialInput struct {
	Title    string              `form:"title" json:"title" validate:"notblank,max=255"`
	Type     domain.MaterialType `form:"type" json:"type" validate:"oneof=file link"`
	URL      string              `form:"url" json:"url" validate:"omitempty,url"`
	IsActive bool                `form:"isActive" json:"isActive"`
}

type FileHandler struct {
	files    services.FileService
	validate *forms.Validator
}

func NewFileHandler(files services.FileService, v *forms.Validator) *FileHandler {
	return &FileHandler{files: files, validate: v}
}

// upload opens the optional "file" part. The returned closer is never nil.
func upload(c *gin.Context) (*api.FileUpload, func(), error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	if fh.Size > maxUploadBytes {
		return nil, func() {}, errors.New("file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return fileUpload(fh, f), func() { _ = f.Close() }, nil
}

func fileUpload(fh *multipart.FileHeader, r io.Reader) *api.FileUpload {
	return &api.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     r,
	}
}

// bindForm binds the multipart fields and the file part.
func (h *FileHandler) bindForm(c *gin.Context, dst any) (*api.FileUpload, func(), bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<20)
	if err := c.ShouldBind(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_form", err)
		return nil, nil, false
	}
	file, closeFn, err := upload(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return nil, nil, false
	}
	return file, closeFn, true
}

// GET /api/lessons/:id/assignments
func (h *FileHandler) ListAssignments(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.files.ListAssignments(c.Request.Context(), lessonID, listParams(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// POST /api/lessons/:id/assignments (multipart)
func (h *FileHandler) CreateAssignment(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in assignmentInput
	file, closeFn, ok := h.bindForm(c, &in)
	if !ok {
		return
	}
	defer closeFn()
	if !validate(c, h.validate, in) {
		return
	}
	a, err := h.files.CreateAssignment(c.Request.Context(), api.CreateAssignmentRequest{
		LessonID:    lessonID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		MaxScore:    in.MaxScore,
		IsActive:    in.IsActive,
		File:        file,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": a})
}

// GET /api/assignments/:id
func (h *FileHandler) GetAssignment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.files.GetAssignment(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": a})
}

// PATCH /api/assignments/:id (multipart). Absent fields are left unchanged.
func (h *FileHandler) UpdateAssignment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in assignmentInput
	file, closeFn, ok := h.bindForm(c, &in)
	if !ok {
		return
	}
	defer closeFn()

	req := api.UpdateAssignmentRequest{File: file}
	if v, ok := c.GetPostForm("title"); ok {
		req.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		req.Description = &v
	}
	if v, ok := c.GetPostForm("dueDate"); ok {
		req.DueDate = &v
	}
	if _, ok := c.GetPostForm("maxScore"); ok {
		req.MaxScore = &in.MaxScore
	}
	if _, ok := c.GetPostForm("isActive"); ok {
		req.IsActive = &in.IsActive
	}
	if req.Title != nil && !validate(c, h.validate, in) {
		return
	}

	ctx := c.Request.Context()
	cur, err := h.files.GetAssignment(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	a, err := h.files.UpdateAssignment(ctx, cur.LessonID, id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": a})
}

// DELETE /api/assignments/:id
func (h *FileHandler) DeleteAssignment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cur, err := h.files.GetAssignment(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.files.DeleteAssignment(ctx, cur.LessonID, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/lessons/:id/materials
func (h *FileHandler) ListMaterials(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.files.ListMaterials(c.Request.Context(), lessonID, listParams(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// POST /api/lessons/:id/materials (multipart)
func (h *FileHandler) CreateMaterial(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in materialInput
	file, closeFn, ok := h.bindForm(c, &in)
	if !ok {
		return
	}
	defer closeFn()
	if !validate(c, h.validate, in) {
		return
	}
	if in.Type == domain.MaterialFile && file == nil {
		respondInvalid(c, "file", "file is required")
		return
	}
	if in.Type == domain.MaterialLink && in.URL == "" {
		respondInvalid(c, "url", "url is required")
		return
	}
	m, err := h.files.CreateMaterial(c.Request.Context(), api.CreateMaterialRequest{
		LessonID: lessonID,
		Title:    in.Title,
		Type:     in.Type,
		URL:      in.URL,
		File:     file,
		IsActive: in.IsActive,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": m})
}

// GET /api/materials/:id
func (h *FileHandler) GetMaterial(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.files.GetMaterial(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": m})
}

// PATCH /api/materials/:id (multipart)
func (h *FileHandler) UpdateMaterial(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in materialInput
	file, closeFn, ok := h.bindForm(c, &in)
	if !ok {
		return
	}
	defer closeFn()

	req := api.UpdateMaterialRequest{File: file}
	if v, ok := c.GetPostForm("title"); ok {
		req.Title = &v
	}
	if _, ok := c.GetPostForm("type"); ok {
		if in.Type != domain.MaterialFile && in.Type != domain.MaterialLink {
			respondInvalid(c, "type", "type must be one of [file link]")
			return
		}
		req.Type = &in.Type
	}
	if v, ok := c.GetPostForm("url"); ok {
		req.URL = &v
	}
	if _, ok := c.GetPostForm("isActive"); ok {
		req.IsActive = &in.IsActive
	}
	if v, ok := c.GetPostForm("order"); ok {
		n := atoi(v)
		req.Order = &n
	}

	ctx := c.Request.Context()
	cur, err := h.files.GetMaterial(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	m, err := h.files.UpdateMaterial(ctx, cur.LessonID, id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": m})
}

// DELETE /api/materials/:id
func (h *FileHandler) DeleteMaterial(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cur, err := h.files.GetMaterial(ctx, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.files.DeleteMaterial(ctx, cur.LessonID, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
