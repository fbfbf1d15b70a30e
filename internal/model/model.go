// Package model holds the GORM-mapped entities of the blog.
package model

// All lists every entity in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
	}
}
