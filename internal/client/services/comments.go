package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/common"
)

type CommentService interface {
	Add(ctx context.Context, bookID models.ID, text string) (models.Comment, error)
	Edit(ctx context.Context, commentID models.ID, text string) (models.Comment, error)
	Delete(ctx context.Context, commentID models.ID) error
}

type commentService struct {
	api client.API
}

func NewCommentService(api client.API) CommentService {
	return &commentService{api: api}
}

func (s *commentService) Add(ctx context.Context, bookID models.ID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, common.ErrEmptyText
	}
	return s.api.AddComment(ctx, bookID, text)
}

func (s *commentService) Edit(ctx context.Context, commentID models.ID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, common.ErrEmptyText
	}
	return s.api.EditComment(ctx, commentID, text)
}

func (s *commentService) Delete(ctx context.Context, commentID models.ID) error {
	return s.api.DeleteComment(ctx, commentID)
}
