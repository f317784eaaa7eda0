package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Role позиция игрока в составе
type Role string

const (
	RoleBatsman    Role = "batsman"
	RoleBowler     Role = "bowler"
	RoleAllRounder Role = "all_rounder"
	RoleKeeper     Role = "keeper"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBatsman, RoleBowler, RoleAllRounder, RoleKeeper:
		return true
	}
	return false
}

// ParseRole converts the wire value into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Player is a catalog record. The assembly engine reads it and never mutates it;
// catalog writes go through the admin endpoints only.
type Player struct {
	ID          uuid.UUID `json:"player_id"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	Team        string    `json:"team"`
	TotalPoints int64     `json:"total_points"`
	BaseCost    int64     `json:"base_cost"`
}

func NewPlayer(name string, role Role, team string, baseCost int64) *Player {
	return &Player{
		ID:       uuid.New(),
		Name:     name,
		Role:     role,
		Team:     team,
		BaseCost: baseCost,
	}
}

func (p *Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidInput
	}
	if !p.Role.Valid() {
		return ErrInvalidRole
	}
	if strings.TrimSpace(p.Team) == "" {
		return ErrInvalidInput
	}
	if p.BaseCost < 0 || p.TotalPoints < 0 {
		return ErrInvalidInput
	}
	return nil
}
