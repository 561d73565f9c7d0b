package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// DefaultStock is the initial stock offered by the add-book form.
const DefaultStock = 50

// BookInput is the body of POST /book and PUT /book/{id}.
type BookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
	CoverImage    string `json:"coverImage"`
	PublishedYear int    `json:"publishedYear"`
	ISBN          string `json:"isbn,omitempty"`
	Price         int64  `json:"price"`
	Stock         int    `json:"stock"`
}

func NewBookInput(now time.Time) BookInput {
	return BookInput{Genre: "Fiction", PublishedYear: now.Year(), Stock: DefaultStock}
}

// InputFromBook pre-fills the edit form with b.
func InputFromBook(b Book) BookInput {
	in := BookInput{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
		Stock:         b.Stock,
	}
	if b.Price != nil {
		in.Price = *b.Price
	}
	return in
}

func (in *BookInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.ISBN = strings.ReplaceAll(strings.TrimSpace(in.ISBN), "-", "")

	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Genre, validation.Required),
		validation.Field(&in.CoverImage, is.URL),
		validation.Field(&in.ISBN, is.ISBN),
		validation.Field(&in.PublishedYear, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&in.Price, validation.Min(0)),
		validation.Field(&in.Stock, validation.Min(0)),
	)
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *SignupInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(4, 0)),
	)
}

// LoginInput is sent to POST /login. The email field also carries plain
// user ids, so only presence is checked.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	return validation.ValidateStruct(in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}
