package services

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type AssignmentsBackend = ChildBackend[domain.LessonAssignment, api.CreateAssignmentRequest, api.UpdateAssignmentRequest]
type MaterialsBackend = ChildBackend[domain.LessonMaterial, api.CreateMaterialRequest, api.UpdateMaterialRequest]

// FileService covers the multipart entities hanging off a lesson.
type FileService interface {
	ListAssignments(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonAssignment], error)
	GetAssignment(ctx context.Context, id domain.ID) (domain.LessonAssignment, error)
	CreateAssignment(ctx context.Context, req api.CreateAssignmentRequest) (domain.LessonAssignment, error)
	UpdateAssignment(ctx context.Context, lessonID, id domain.ID, req api.UpdateAssignmentRequest) (domain.LessonAssignment, error)
	DeleteAssignment(ctx context.Context, lessonID, id domain.ID) error

	ListMaterials(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonMaterial], error)
	GetMaterial(ctx context.Context, id domain.ID) (domain.LessonMaterial, error)
	CreateMaterial(ctx context.Context, req api.CreateMaterialRequest) (domain.LessonMaterial, error)
	UpdateMaterial(ctx context.Context, lessonID, id domain.ID, req api.UpdateMaterialRequest) (domain.LessonMaterial, error)
	DeleteMaterial(ctx context.Context, lessonID, id domain.ID) error
}

type fileService struct {
	assignments children[domain.LessonAssignment, api.CreateAssignmentRequest, api.UpdateAssignmentRequest]
	materials   children[domain.LessonMaterial, api.CreateMaterialRequest, api.UpdateMaterialRequest]
}

func NewFileService(log *logger.Logger, cache *querycache.Cache, assignments AssignmentsBackend, materials MaterialsBackend) FileService {
	iv := invalidator{cache: cache, log: log.With("service", "FileService")}
	return &fileService{
		assignments: children[domain.LessonAssignment, api.CreateAssignmentRequest, api.UpdateAssignmentRequest]{cache: cache, iv: iv, keys: AssignmentKeys, backend: assignments},
		materials:   children[domain.LessonMaterial, api.CreateMaterialRequest, api.UpdateMaterialRequest]{cache: cache, iv: iv, keys: MaterialKeys, backend: materials},
	}
}

func (s *fileService) ListAssignments(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonAssignment], error) {
	return s.assignments.list(ctx, lessonID, p)
}

func (s *fileService) GetAssignment(ctx context.Context, id domain.ID) (domain.LessonAssignment, error) {
	return s.assignments.get(ctx, id)
}

func (s *fileService) CreateAssignment(ctx context.Context, req api.CreateAssignmentRequest) (domain.LessonAssignment, error) {
	return s.assignments.create(ctx, req.LessonID, req)
}

func (s *fileService) UpdateAssignment(ctx context.Context, lessonID, id domain.ID, req api.UpdateAssignmentRequest) (domain.LessonAssignment, error) {
	return s.assignments.update(ctx, lessonID, id, req)
}

func (s *fileService) DeleteAssignment(ctx context.Context, lessonID, id domain.ID) error {
	return s.assignments.delete(ctx, lessonID, id)
}

func (s *fileService) ListMaterials(ctx context.Context, lessonID domain.ID, p api.ListParams) (api.Page[domain.LessonMaterial], error) {
	return s.materials.list(ctx, lessonID, p)
}

func (s *fileService) GetMaterial(ctx context.Context, id domain.ID) (domain.LessonMaterial, error) {
	return s.materials.get(ctx, id)
}

func (s *fileService) CreateMaterial(ctx context.Context, req api.CreateMaterialRequest) (domain.LessonMaterial, error) {
	return s.materials.create(ctx, req.LessonID, req)
}

func (s *fileService) UpdateMaterial(ctx context.Context, lessonID, id domain.ID, req api.UpdateMaterialRequest) (domain.LessonMaterial, error) {
	return s.materials.update(ctx, lessonID, id, req)
}

func (s *fileService) DeleteMaterial(ctx context.Context, lessonID, id domain.ID) error {
	return s.materials.delete(ctx, lessonID, id)
}
