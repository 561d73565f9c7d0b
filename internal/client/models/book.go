// Package models defines the storefront data model shared by the client
// packages: books with their ratings and comments, orders, users and the
// credential pair issued by the API.
package models

import "time"

// DefaultUnitPrice is charged for books that carry no price.
const DefaultUnitPrice int64 = 15000

type Rating struct {
	UserID    string    `json:"userId"`
	Score     int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// Comment is a short review attached to a book.
type Comment struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentResponse is the shape returned by the comment endpoints.
type CommentResponse struct {
	CommentID   ID        `json:"commentId"`
	UserID      string    `json:"userId"`
	BookID      ID        `json:"bookId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c CommentResponse) Comment() Comment {
	return Comment{ID: c.CommentID, UserID: c.UserID, Text: c.Description, Timestamp: c.CreatedAt}
}

type Book struct {
	ID            ID        `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"coverImage"`
	PublishedYear int       `json:"publishedYear"`
	ISBN          string    `json:"isbn,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	Stock         int       `json:"stock"`
	Price         *int64    `json:"price,omitempty"`
	Ratings       []Rating  `json:"ratings"`
	Comments      []Comment `json:"reviews"`
}

// UnitPrice returns the book price, or def when the book has none.
func (b Book) UnitPrice(def int64) int64 {
	if b.Price == nil || *b.Price <= 0 {
		return def
	}
	return *b.Price
}

// Normalize replaces nil collections and negative stock coming from the API.
func (b *Book) Normalize() {
	if b.Ratings == nil {
		b.Ratings = []Rating{}
	}
	if b.Comments == nil {
		b.Comments = []Comment{}
	}
	if b.Stock < 0 {
		b.Stock = 0
	}
}

// FindBook returns the book with the given id.
func FindBook(books []Book, id ID) (Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}
