// internal/roster/employee.go
//
// The employee record and the attribute helpers the entry form binds to.

package roster

// Employee is a single roster entry. No field is required and ID is not
// guaranteed to be unique.
type Employee struct {
	ID             string
	Name           string
	Surname        string
	Position       string
	ProfilePicture string
	Email          string
	Phone          string
}

// Field identifies one attribute of an Employee.
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldSurname
	FieldPosition
	FieldProfilePicture
	FieldEmail
	FieldPhone
)

// Fields lists every attribute in display order.
var Fields = []Field{
	FieldID,
	FieldName,
	FieldSurname,
	FieldPosition,
	FieldProfilePicture,
	FieldEmail,
	FieldPhone,
}

// Label returns the on-screen name of the field.
func (f Field) Label() string {
	switch f {
	case FieldID:
		return "ID"
	case FieldName:
		return "Name"
	case FieldSurname:
		return "Surname"
	case FieldPosition:
		return "Position"
	case FieldProfilePicture:
		return "Profile Picture"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	default:
		return "Unknown"
	}
}

// Get returns the value stored in f.
func (e Employee) Get(f Field) string {
	switch f {
	case FieldID:
		return e.ID
	case FieldName:
		return e.Name
	case FieldSurname:
		return e.Surname
	case FieldPosition:
		return e.Position
	case FieldProfilePicture:
		return e.ProfilePicture
	case FieldEmail:
		return e.Email
	case FieldPhone:
		return e.Phone
	}
	return ""
}

// Set writes value into f and leaves every other attribute alone.
func (e *Employee) Set(f Field, value string) {
	switch f {
	case FieldID:
		e.ID = value
	case FieldName:
		e.Name = value
	case FieldSurname:
		e.Surname = value
	case FieldPosition:
		e.Position = value
	case FieldProfilePicture:
		e.ProfilePicture = value
	case FieldEmail:
		e.Email = value
	case FieldPhone:
		e.Phone = value
	}
}
