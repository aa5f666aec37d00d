package person

// HairColor is a closed set of hair colors.
type HairColor string

// Hair colors.
const (
	White  HairColor = "white"
	Brown  HairColor = "brown"
	Black  HairColor = "black"
	Blonde HairColor = "blonde"
	Red    HairColor = "red"
)

// EnumValues implements api.Enum.
func (HairColor) EnumValues() []string {
	return []string{string(White), string(Brown), string(Black), string(Blonde), string(Red)}
}

// Valid reports whether h is one of the known colors.
func (h HairColor) Valid() bool {
	switch h {
	case White, Brown, Black, Blonde, Red:
		return true
	default:
		return false
	}
}

// PersonBase holds the fields shared by every person shape.
type PersonBase struct {
	FirstName string     `json:"first_name" required:"true" minLength:"2" maxLength:"50" doc:"Given name"`
	LastName  string     `json:"last_name" required:"true" minLength:"2" maxLength:"50" doc:"Family name"`
	Age       int        `json:"age" required:"true" exclusiveMinimum:"0" maximum:"120" doc:"Age in years"`
	HairColor *HairColor `json:"hair_color" doc:"Hair color, if known"`
	IsMarried *bool      `json:"is_married" doc:"Marital status, if known"`
}

// Person is the writable person: the shared fields plus a password.
type Person struct {
	PersonBase
	Password string `json:"password" required:"true" minLength:"8" format:"password"`
}

// Out returns the read projection of p. The password is not part of it.
func (p *Person) Out() *PersonOut {
	return &PersonOut{PersonBase: p.PersonBase}
}

// PersonOut is what the API returns for a person.
type PersonOut struct {
	PersonBase
}

// Location is where a person lives.
type Location struct {
	City    string `json:"city" required:"true"`
	State   string `json:"state" required:"true"`
	Country string `json:"country" required:"true"`
}

// DefaultLoginMessage is the message of a successful login.
const DefaultLoginMessage = "Login Succesfully!"

// LoginOut is the result of a login.
type LoginOut struct {
	Username string `json:"username" required:"true" maxLength:"20"`
	Message  string `json:"message" default:"Login Succesfully!"`
}

// NewLoginOut returns a LoginOut for username with the default message.
func NewLoginOut(username string) *LoginOut {
	return &LoginOut{Username: username, Message: DefaultLoginMessage}
}
