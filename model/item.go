package model

import "fmt"

type Item struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	Path         string   `json:"path"`
	Language     string   `json:"language"`
	LanguageName string   `json:"languageName"`
	Version      int      `json:"version"`
	WorkflowId   string   `json:"workflowId"`
	StateId      string   `json:"stateId"`
	ReadOnly     bool     `json:"readOnly"`
	LockedBy     string   `json:"lockedBy"`
	WriteRoles   []string `json:"writeRoles"`
}

// Key identifies one language version of an item.
func (i Item) Key() ItemKey {
	return ItemKey{Id: i.Id, Language: i.Language, Version: i.Version}
}

// Title falls back to the item name when no display name is set.
func (i Item) Title() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Name
}

type ItemKey struct {
	Id       string `json:"id"`
	Language string `json:"language"`
	Version  int    `json:"version"`
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.Id, k.Language, k.Version)
}

type UserProfile struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	FullName      string   `json:"fullName"`
	Roles         []string `json:"roles"`
	Administrator bool     `json:"administrator"`
}

func (u UserProfile) InRole(roles ...string) bool {
	for _, r := range roles {
		for _, own := range u.Roles {
			if own == r {
				return true
			}
		}
	}
	return false
}
