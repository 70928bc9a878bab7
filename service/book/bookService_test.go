// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"errors"
	"testing"

	booksvc "github.com/sukisigm69/LiteraSpace/service/book"
)

type repoMock struct {
	createFn func(ctx context.Context, title, author, image string, stock int64) (int64, error)
	updateFn func(ctx context.Context, id int64, title, author, image string, stock int64) (bool, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
	listFn   func(ctx context.Context) ([]booksvc.Book, error)
	detailFn func(ctx context.Context, id int64) (*booksvc.Book, error)
	adjustFn func(ctx context.Context, id int64, delta int64) (bool, error)
}

func (m *repoMock) Create(ctx context.Context, title, author, image string, stock int64) (int64, error) {
	return m.createFn(ctx, title, author, image, stock)
}
func (m *repoMock) Update(ctx context.Context, id int64, title, author, image string, stock int64) (bool, error) {
	return m.updateFn(ctx, id, title, author, image, stock)
}
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) { return m.deleteFn(ctx, id) }
func (m *repoMock) List(ctx context.Context) ([]booksvc.Book, error)   { return m.listFn(ctx) }
func (m *repoMock) Detail(ctx context.Context, id int64) (*booksvc.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) AdjustStock(ctx context.Context, id int64, delta int64) (bool, error) {
	return m.adjustFn(ctx, id, delta)
}

type coversMock struct{ url string }

func (c *coversMock) Resolve(ctx context.Context, title, author string) string { return c.url }

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{}, &coversMock{})
	if _, err := s.Create(context.Background(), "", "Martin", "", 1); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatal("expected bad input for empty title")
	}
	if _, err := s.Create(context.Background(), "Clean Code", "", "", 1); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatal("expected bad input for empty author")
	}
	if _, err := s.Create(context.Background(), "Clean Code", "Martin", "", -1); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatal("expected bad input for negative stock")
	}
}

func TestCreate_CoverFallback(t *testing.T) {
	var gotImage string
	m := &repoMock{
		createFn: func(ctx context.Context, title, author, image string, stock int64) (int64, error) {
			gotImage = image
			return 42, nil
		},
	}
	s := booksvc.New(m, &coversMock{url: "https://covers.example/42.jpg"})

	id, err := s.Create(context.Background(), "Clean Code", "Martin", "", 3)
	if err != nil || id != 42 {
		t.Fatalf("got id=%v err=%v; want 42 nil", id, err)
	}
	if gotImage != "https://covers.example/42.jpg" {
		t.Fatalf("cover not resolved, got %q", gotImage)
	}
}

func TestCreate_KeepsExplicitImage(t *testing.T) {
	var gotImage string
	m := &repoMock{
		createFn: func(ctx context.Context, title, author, image string, stock int64) (int64, error) {
			gotImage = image
			return 1, nil
		},
	}
	s := booksvc.New(m, &coversMock{url: "https://covers.example/should-not-be-used.jpg"})

	if _, err := s.Create(context.Background(), "Clean Code", "Martin", "https://mine.example/c.jpg", 3); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if gotImage != "https://mine.example/c.jpg" {
		t.Fatalf("explicit image replaced, got %q", gotImage)
	}
}

func TestAdjustStock_NegativeRejected(t *testing.T) {
	m := &repoMock{
		adjustFn: func(ctx context.Context, id int64, delta int64) (bool, error) { return false, nil },
		detailFn: func(ctx context.Context, id int64) (*booksvc.Book, error) {
			return &booksvc.Book{ID: id, Title: "Clean Code", Stock: 0}, nil
		},
	}
	s := booksvc.New(m, &coversMock{})

	_, err := s.AdjustStock(context.Background(), 7, -2)
	if booksvc.Code(err) != booksvc.ErrNegative {
		t.Fatalf("got %v; want negative-stock conflict", err)
	}
}

func TestAdjustStock_Success(t *testing.T) {
	m := &repoMock{
		adjustFn: func(ctx context.Context, id int64, delta int64) (bool, error) { return true, nil },
		detailFn: func(ctx context.Context, id int64) (*booksvc.Book, error) {
			return &booksvc.Book{ID: id, Title: "Clean Code", Stock: 5}, nil
		},
	}
	s := booksvc.New(m, &coversMock{})

	b, err := s.AdjustStock(context.Background(), 7, 2)
	if err != nil || b.Stock != 5 {
		t.Fatalf("got %+v err=%v", b, err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	s := booksvc.New(m, &coversMock{})
	if err := s.Delete(context.Background(), 99); booksvc.Code(err) != booksvc.ErrNotFound {
		t.Fatal("expected not found")
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context) ([]booksvc.Book, error) { return nil, nil },
		detailFn: func(ctx context.Context, id int64) (*booksvc.Book, error) {
			return &booksvc.Book{ID: id}, nil
		},
	}
	s := booksvc.New(m, &coversMock{})

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := s.Detail(context.Background(), 99); err != nil {
		t.Fatalf("Detail error: %v", err)
	}
}

func TestDetail_NotFoundMapped(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*booksvc.Book, error) {
			return nil, errors.New("some driver error")
		},
	}
	s := booksvc.New(m, &coversMock{})
	if _, err := s.Detail(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}
