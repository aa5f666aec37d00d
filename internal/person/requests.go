package person

import "github.com/bjaus/personapi/api"

// Message is a single-message response.
type Message struct {
	Message string `json:"message"`
}

// DetailQuery selects a person by query string.
type DetailQuery struct {
	Name *string `query:"name" minLength:"2" maxLength:"50" doc:"This is the person name. It's between 1 and 50 characters"`
	Age  string  `query:"age" required:"true" doc:"This is the person age. It's required"`
}

// Detail echoes a person lookup.
type Detail struct {
	Name *string `json:"name"`
	Age  string  `json:"age"`
}

// DetailPath selects a person by ID.
type DetailPath struct {
	PersonID int `path:"person_id" minimum:"1" doc:"This is the person ID. It's required"`
}

// Exists maps a person ID to a presence message.
type Exists map[string]string

// UpdateRequest replaces a person and their location.
type UpdateRequest struct {
	PersonID int `path:"person_id" exclusiveMinimum:"0" doc:"This is the person ID"`
	Body     struct {
		Person   Person   `json:"person" required:"true"`
		Location Location `json:"location" required:"true"`
	}
}

// Merged is a person and a location flattened into one object.
type Merged map[string]any

// LoginForm is the login form.
type LoginForm struct {
	Username string `form:"username" required:"true" maxLength:"20"`
	Password string `form:"password" required:"true" format:"password"`
}

// ContactForm is the contact form plus the client's headers and cookies.
type ContactForm struct {
	FirstName string  `form:"first_name" required:"true" minLength:"1" maxLength:"20"`
	LastName  string  `form:"last_name" required:"true" minLength:"1" maxLength:"20"`
	Email     string  `form:"email" required:"true" format:"email"`
	Message   string  `form:"message" required:"true" minLength:"20"`
	UserAgent *string `header:"User-Agent"`
	Ads       *string `cookie:"ads"`
}

// ContactOut reports the client that sent a contact form.
type ContactOut struct {
	UserAgent *string `json:"user_agent"`
}

// ImageForm carries one uploaded image.
type ImageForm struct {
	Image api.FileUpload `form:"image" required:"true"`
}

// ImageOut describes an uploaded image. Size is in kilobytes of 1000 bytes.
type ImageOut struct {
	Filename string  `json:"Filename"`
	Format   string  `json:"Format"`
	Size     float64 `json:"Size(kb)"`
}
