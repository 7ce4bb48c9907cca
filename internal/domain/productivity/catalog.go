package productivity

import (
	"strings"
	"time"
)

type ProductFamily struct {
	ID          string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}

func NewProductFamily(id, name, description, color string, now time.Time) (ProductFamily, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProductFamily{}, ErrInvalidFamilyName
	}
	return ProductFamily{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		Color:       strings.TrimSpace(color),
		CreatedAt:   now,
	}, nil
}

type Installer struct {
	ID        string
	UserID    string
	FullName  string
	Branch    string
	Phone     string
	CreatedAt time.Time
}

// InstallerUpdate changes the non-nil fields of an installer.
type InstallerUpdate struct {
	FullName *string
	Branch   *string
	Phone    *string
}

func (i *Installer) Apply(u InstallerUpdate) error {
	if u.FullName != nil {
		name := strings.TrimSpace(*u.FullName)
		if name == "" {
			return ErrInvalidInstallerName
		}
		i.FullName = name
	}
	if u.Branch != nil {
		i.Branch = strings.ToUpper(strings.TrimSpace(*u.Branch))
	}
	if u.Phone != nil {
		i.Phone = strings.TrimSpace(*u.Phone)
	}
	return nil
}

func NewInstaller(id, userID, fullName, branch, phone string, now time.Time) (Installer, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return Installer{}, ErrInvalidInstallerName
	}
	return Installer{
		ID:        id,
		UserID:    strings.TrimSpace(userID),
		FullName:  fullName,
		Branch:    strings.ToUpper(strings.TrimSpace(branch)),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
	}, nil
}
