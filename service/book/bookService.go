package booksvc

import (
	"context"
	"database/sql"
	"errors"

	coversrepo "github.com/sukisigm69/LiteraSpace/repository/covers"

	"github.com/sukisigm69/LiteraSpace/model"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrNegative ErrCode = "NEGATIVE_STOCK"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Book = model.Book

type Repo interface {
	Create(ctx context.Context, title, author, image string, stock int64) (int64, error)
	Update(ctx context.Context, id int64, title, author, image string, stock int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]Book, error)
	Detail(ctx context.Context, id int64) (*Book, error)
	AdjustStock(ctx context.Context, id int64, delta int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, title, author, image string, stock int64) (int64, error)
	Update(ctx context.Context, id int64, title, author, image string, stock int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Book, error)
	Detail(ctx context.Context, id int64) (*Book, error)

	// AdjustStock is the admin stock-correction path. Like the workflow
	// engine it goes through the conditional update, so a correction can
	// never drive stock negative.
	AdjustStock(ctx context.Context, id int64, delta int64) (*Book, error)
}

type service struct {
	r      Repo
	covers coversrepo.Repo
}

func New(r Repo, covers coversrepo.Repo) Service { return &service{r: r, covers: covers} }

func (s *service) Create(ctx context.Context, title, author, image string, stock int64) (int64, error) {
	if title == "" || author == "" || stock < 0 {
		return 0, makeErr(ErrBadInput)
	}
	if image == "" {
		image = s.covers.Resolve(ctx, title, author)
	}
	return s.r.Create(ctx, title, author, image, stock)
}

func (s *service) Update(ctx context.Context, id int64, title, author, image string, stock int64) error {
	if title == "" || author == "" || stock < 0 {
		return makeErr(ErrBadInput)
	}
	if image == "" {
		image = s.covers.Resolve(ctx, title, author)
	}
	ok, err := s.r.Update(ctx, id, title, author, image, stock)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]Book, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) AdjustStock(ctx context.Context, id int64, delta int64) (*Book, error) {
	ok, err := s.r.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Either the book is gone or the delta would go below zero; look the
		// row up to tell the two apart.
		if _, derr := s.r.Detail(ctx, id); derr != nil {
			if errors.Is(derr, sql.ErrNoRows) {
				return nil, makeErr(ErrNotFound)
			}
			return nil, derr
		}
		return nil, makeErr(ErrNegative)
	}
	return s.r.Detail(ctx, id)
}
