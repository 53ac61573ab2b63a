package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"file-vault/backend/common"
	apperrors "file-vault/backend/common/errors"
	"file-vault/backend/library/objectid"
	"file-vault/backend/library/session"
	"file-vault/backend/model"

	"github.com/go-playground/validator/v10"
)

// SessionResolver maps an auth token to the raw id of its user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// CreateFileInput is the body of an upload. Data is required for every type
// except folder; a folder's data is discarded.
type CreateFileInput struct {
	Name     string         `json:"name" validate:"required"`
	Type     model.FileType `json:"type" validate:"required,oneof=folder file image"`
	Data     *string        `json:"data" validate:"required_unless=Type folder"`
	IsPublic bool           `json:"isPublic"`
	ParentID model.ParentID `json:"parentId"`
}

type FileService struct {
	store    model.Store
	sessions SessionResolver
	validate *validator.Validate
	pageSize int
}

func NewFileService(store model.Store, sessions SessionResolver) *FileService {
	return &FileService{
		store:    store,
		sessions: sessions,
		validate: validator.New(),
		pageSize: common.ItemsPerPage,
	}
}

// Authenticate resolves token to a live user. Any failure short of a
// backing-store error is Unauthorized.
func (s *FileService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	rawID, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, session.ErrUnauthorized) {
		return nil, apperrors.Unauthorized()
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	userID, err := objectid.Parse(rawID)
	if err != nil {
		return nil, apperrors.Unauthorized()
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, model.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized()
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// validateCreate reports the first problem in field order: name, type, data.
// A non-folder needs non-empty data; the validator only checks that it is set.
func (s *FileService) validateCreate(input *CreateFileInput) error {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.Internal(err)
		}
		for _, fe := range verrs {
			switch fe.StructField() {
			case "Name":
				return apperrors.MissingField("name")
			case "Type":
				if fe.Tag() == "required" {
					return apperrors.MissingField("type")
				}
				return apperrors.New(apperrors.ErrInvalidType, "Invalid type")
			case "Data":
				return apperrors.MissingField("data")
			}
		}
		return apperrors.Internal(err)
	}
	if input.Type != model.FileTypeFolder && (input.Data == nil || *input.Data == "") {
		return apperrors.MissingField("data")
	}
	return nil
}

// resolveParent checks that a non-root parent is an existing folder owned by
// userID and returns its canonical id.
func (s *FileService) resolveParent(ctx context.Context, userID string, raw model.ParentID) (model.ParentID, error) {
	if raw.IsRoot() {
		return model.RootParent, nil
	}
	parentID, err := objectid.Parse(string(raw))
	if err != nil {
		return "", apperrors.New(apperrors.ErrInvalidParent, "Parent not found")
	}
	parent, err := s.store.GetFile(ctx, parentID, userID)
	if errors.Is(err, model.ErrRecordNotFound) {
		return "", apperrors.New(apperrors.ErrInvalidParent, "Parent not found")
	}
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if !parent.IsFolder() {
		return "", apperrors.New(apperrors.ErrInvalidParent, "Parent is not a folder")
	}
	return model.ParentID(parentID), nil
}

// Create validates input and persists a new record owned by the token's
// user. Nothing is written unless every check passes.
func (s *FileService) Create(ctx context.Context, token string, input CreateFileInput) (*model.File, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.validateCreate(&input); err != nil {
		return nil, err
	}
	parentID, err := s.resolveParent(ctx, user.ID, input.ParentID)
	if err != nil {
		return nil, err
	}

	f := &model.File{
		UserID:   user.ID,
		Name:     input.Name,
		Type:     input.Type,
		IsPublic: input.IsPublic,
		ParentID: parentID,
	}
	if !f.IsFolder() {
		f.Data = input.Data
	}
	if _, err := s.store.InsertFile(ctx, f); err != nil {
		return nil, apperrors.Internal(err)
	}
	common.SysDebug("file " + f.ID + " created by user " + user.ID)
	return shape(f), nil
}

// List returns one page of the token user's children of parentID. A parent
// that is missing or not a folder simply has no children.
func (s *FileService) List(ctx context.Context, token string, parentID string, page string) ([]*model.File, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	pageNum := ParsePage(page)

	parent := model.RootParent
	if !objectid.IsRoot(parentID) {
		id, err := objectid.Parse(parentID)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrInvalidParent, "Invalid parentId")
		}
		folder, err := s.store.GetFile(ctx, id, user.ID)
		if errors.Is(err, model.ErrRecordNotFound) {
			return []*model.File{}, nil
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if !folder.IsFolder() {
			return []*model.File{}, nil
		}
		parent = model.ParentID(id)
	}

	files, err := s.store.ListFilesByParent(ctx, user.ID, parent, pageNum, s.pageSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	shaped := make([]*model.File, 0, len(files))
	for _, f := range files {
		shaped = append(shaped, shape(f))
	}
	return shaped, nil
}

// Show returns a single record owned by the token's user. Malformed ids are
// reported as not found.
func (s *FileService) Show(ctx context.Context, token string, fileID string) (*model.File, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	id, err := objectid.Parse(fileID)
	if err != nil {
		return nil, apperrors.NotFound()
	}
	f, err := s.store.GetFile(ctx, id, user.ID)
	if errors.Is(err, model.ErrRecordNotFound) {
		return nil, apperrors.NotFound()
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return shape(f), nil
}

// ParsePage reads the leading integer of a page query value, so "2abc" and
// "1.5" are pages 2 and 1. Anything without leading digits, and negative
// pages, are page 0. Values too large for an int saturate, which lists as
// an empty page.
func ParsePage(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r")
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}
	page, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return page
}

// shape strips the payload before a record leaves the service.
func shape(f *model.File) *model.File {
	out := *f
	out.Data = nil
	return &out
}
