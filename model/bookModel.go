// model/book.go
package model

type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Image  string `json:"image,omitempty"`
	Stock  int64  `json:"stock"`
}
