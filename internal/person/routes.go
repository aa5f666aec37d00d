// Package person declares the person, login, contact and image routes.
package person

import (
	"net/http"

	"github.com/bjaus/personapi/api"
)

// TagDescriptions describes each route tag in the OpenAPI document.
var TagDescriptions = map[string]string{
	"home":    "Service root",
	"person":  "Create, look up and update people",
	"account": "Login and contact forms",
	"files":   "File uploads",
}

// Register adds every route to r.
func Register(r *api.Router) {
	api.Get(r, "/", handleHome,
		api.WithSummary("Home"),
		api.WithTags("home"),
	)

	persons := r.Group("/person", api.WithGroupTags("person"))

	api.Post(persons, "/new", handleCreate,
		api.WithStatus(http.StatusCreated),
		api.WithSummary("Create a person"),
		api.WithDescription("Validates a person and returns it without the password."),
	)
	api.Get(persons, "/detail", handleDetail,
		api.WithSummary("Find a person by name and age"),
	)
	api.Get(persons, "/detail/{person_id}", handleDetailByID,
		api.WithSummary("Check a person exists"),
	)
	api.Put(persons, "/{person_id}", handleUpdate,
		api.WithStatus(http.StatusNoContent),
		api.WithSummary("Update a person"),
		api.WithDescription("Replaces a person and their location."),
	)

	api.Post(r, "/login", handleLogin,
		api.WithStatus(http.StatusCreated),
		api.WithSummary("Log in"),
		api.WithTags("account"),
	)
	api.Post(r, "/contact", handleContact,
		api.WithStatus(http.StatusCreated),
		api.WithSummary("Send a contact message"),
		api.WithTags("account"),
	)
	api.Post(r, "/post-image", handleImage,
		api.WithStatus(http.StatusCreated),
		api.WithSummary("Upload an image"),
		api.WithTags("files"),
		api.WithBodyLimit(10<<20),
	)
}
