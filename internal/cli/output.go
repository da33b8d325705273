package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output formats command results as text or JSON
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	o.printText(data)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, msg)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case Principal:
		o.printPrincipal(v)
	case AuthResult:
		o.printPrincipal(v.User)
		fmt.Fprintf(o.w, "Token: %s\n", v.SessionToken)
		fmt.Fprintf(o.w, "Expires: %s\n", v.ExpiresAt.Format(time.RFC3339))
	case AdminStatus:
		if v.AdminPresent {
			fmt.Fprintln(o.w, "Administrator: assigned")
		} else {
			fmt.Fprintln(o.w, "Administrator: none (any logged-in user may promote)")
		}
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal response type
type Principal struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Authorities []string `json:"authorities"`
}

// AuthResult combines the principal and token
type AuthResult struct {
	User         Principal `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AdminStatus response type
type AdminStatus struct {
	AdminPresent bool `json:"admin_present"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Role: %s\n", u.Role)
	fmt.Fprintf(o.w, "Created: %s\n", u.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printPrincipal(p Principal) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", p.Username, p.UserID)
	fmt.Fprintf(o.w, "Role: %s\n", p.Role)
	fmt.Fprintf(o.w, "Authorities: %s\n", strings.Join(p.Authorities, ", "))
}
