package api

import (
	"encoding/json"
	"time"
)

// Role selects the login route. The three roles hit three distinct backend
// endpoints of identical shape, so the route lives on the variant rather
// than being a parameter of one endpoint.
type Role int

const (
	// RoleCitizen logs in via /auth/citizen/login
	RoleCitizen Role = iota
	// RoleAdmin logs in via /auth/admin/login
	RoleAdmin
	// RoleSuperAdmin logs in via /auth/super-admin/login
	RoleSuperAdmin
)

// LoginPath returns the backend route for this role's login
func (r Role) LoginPath() string {
	switch r {
	case RoleAdmin:
		return "/auth/admin/login"
	case RoleSuperAdmin:
		return "/auth/super-admin/login"
	default:
		return "/auth/citizen/login"
	}
}

// String returns the CLI-facing name of the role
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "super-admin"
	default:
		return "citizen"
	}
}

// ParseRole parses a CLI-facing role name
func ParseRole(s string) (Role, bool) {
	switch s {
	case "citizen", "":
		return RoleCitizen, true
	case "admin":
		return RoleAdmin, true
	case "super-admin", "superadmin":
		return RoleSuperAdmin, true
	default:
		return RoleCitizen, false
	}
}

// Wire-level role values returned by the backend
const (
	WireRoleCitizen    = "ROLE_CITIZEN"
	WireRoleAdmin      = "ROLE_ADMIN"
	WireRoleSuperAdmin = "ROLE_SUPER_ADMIN"
)

// UserProfile is the authenticated user as returned by login/registration.
// It is immutable once constructed and replaced wholesale on re-login.
type UserProfile struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// AuthResult is the payload of every successful auth call
type AuthResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Profile builds the user profile carried by the session
func (a *AuthResult) Profile() UserProfile {
	return UserProfile{
		ID:       a.UserID,
		FullName: a.FullName,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// RegisterRequest is the citizen registration payload
type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// ComplaintType categorizes a complaint. Values must match the backend
// enum exactly; the client validates before submitting.
type ComplaintType string

const (
	TypeRoadDamage           ComplaintType = "ROAD_DAMAGE"
	TypeStreetLight          ComplaintType = "STREET_LIGHT"
	TypeGarbageCollection    ComplaintType = "GARBAGE_COLLECTION"
	TypeWaterSupply          ComplaintType = "WATER_SUPPLY"
	TypeDrainage             ComplaintType = "DRAINAGE"
	TypeIllegalConstruction  ComplaintType = "ILLEGAL_CONSTRUCTION"
	TypeNoisePollution       ComplaintType = "NOISE_POLLUTION"
	TypePublicPropertyDamage ComplaintType = "PUBLIC_PROPERTY_DAMAGE"
	TypeOther                ComplaintType = "OTHER"
)

// ComplaintTypes lists every valid complaint type in display order
func ComplaintTypes() []ComplaintType {
	return []ComplaintType{
		TypeRoadDamage,
		TypeStreetLight,
		TypeGarbageCollection,
		TypeWaterSupply,
		TypeDrainage,
		TypeIllegalConstruction,
		TypeNoisePollution,
		TypePublicPropertyDamage,
		TypeOther,
	}
}

// Valid reports whether the type is one the backend accepts
func (t ComplaintType) Valid() bool {
	for _, known := range ComplaintTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the type
func (t ComplaintType) Label() string {
	switch t {
	case TypeRoadDamage:
		return "Road Damage"
	case TypeStreetLight:
		return "Street Light Issue"
	case TypeGarbageCollection:
		return "Garbage Collection"
	case TypeWaterSupply:
		return "Water Supply"
	case TypeDrainage:
		return "Drainage Problem"
	case TypeIllegalConstruction:
		return "Illegal Construction"
	case TypeNoisePollution:
		return "Noise Pollution"
	case TypePublicPropertyDamage:
		return "Public Property Damage"
	case TypeOther:
		return "Other"
	default:
		return string(t)
	}
}

// ComplaintStatus is the backend-owned lifecycle state of a complaint
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusRejected   ComplaintStatus = "REJECTED"
)

// ComplaintStatuses lists every status the backend reports
func ComplaintStatuses() []ComplaintStatus {
	return []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected}
}

// Valid reports whether the status is a known backend value
func (s ComplaintStatus) Valid() bool {
	for _, known := range ComplaintStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the status
func (s ComplaintStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// Attachment is a reference to an uploaded complaint image
type Attachment struct {
	ID       int64  `json:"id"`
	FileName string `json:"fileName,omitempty"`
}

// Complaint is a read-only projection of a remote complaint.
// The client never mutates one; it only creates new complaints and reads
// paginated listings.
type Complaint struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ComplaintType ComplaintType   `json:"complaintType"`
	Status        ComplaintStatus `json:"status"`
	LocationText  string          `json:"locationText"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	CreatedAt     time.Time       `json:"createdAt"`
	Attachments   []Attachment    `json:"attachments,omitempty"`
}

// ComplaintDraft holds the fields of a complaint being submitted
type ComplaintDraft struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ComplaintType ComplaintType `json:"complaintType"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	LocationText  string        `json:"locationText"`
}

// ComplaintPage is one page of the paginated listing
type ComplaintPage struct {
	Content []Complaint `json:"content"`
	Last    bool        `json:"last"`
}

// envelope is the {data, message} wrapper every backend response uses
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}
