package services

import (
	"sort"
	"strings"

	"hotel-reservation/models"
)

// Action names follow the "module.action" scheme stored against roles.
type Action string

const (
	RoomTypesList     Action = "roomTypes.list"
	RoomTypesRetrieve Action = "roomTypes.retrieve"
	RoomTypesCreate   Action = "roomTypes.create"
	RoomTypesUpdate   Action = "roomTypes.update"
	RoomTypesDelete   Action = "roomTypes.delete"

	RoomsList     Action = "rooms.list"
	RoomsRetrieve Action = "rooms.retrieve"
	RoomsCreate   Action = "rooms.create"
	RoomsUpdate   Action = "rooms.update"
	RoomsDelete   Action = "rooms.delete"

	ReservationsCreate      Action = "reservations.create"
	ReservationsList        Action = "reservations.list"
	ReservationsExport      Action = "reservations.export"
	ReservationsRetrieve    Action = "reservations.retrieve"
	ReservationsDelete      Action = "reservations.delete"
	ReservationsUpdateDates Action = "reservations.updateDates"
	ReservationsUpdateRoom  Action = "reservations.updateRoom"

	UsersList     Action = "users.list"
	UsersRetrieve Action = "users.retrieve"
	UsersCreate   Action = "users.create"
	UsersUpdate   Action = "users.update"
	UsersDelete   Action = "users.delete"

	RolesList Action = "roles.list"
)

var (
	anyRole    = []models.Role{models.RoleAdmin, models.RoleAgent, models.RoleGuest}
	staffRoles = []models.Role{models.RoleAdmin, models.RoleAgent}
	adminOnly  = []models.Role{models.RoleAdmin}
)

// permissionTable lists the roles allowed to perform each action outright.
// Ownership grants (a guest reading their own reservation or profile) are checked
// separately by CanAccessOwned.
var permissionTable = map[Action][]models.Role{
	RoomTypesList:     anyRole,
	RoomTypesRetrieve: anyRole,
	RoomTypesCreate:   adminOnly,
	RoomTypesUpdate:   adminOnly,
	RoomTypesDelete:   adminOnly,

	RoomsList:     staffRoles,
	RoomsRetrieve: staffRoles,
	RoomsCreate:   adminOnly,
	RoomsUpdate:   adminOnly,
	RoomsDelete:   adminOnly,

	ReservationsCreate:      anyRole,
	ReservationsList:        staffRoles,
	ReservationsExport:      staffRoles,
	ReservationsRetrieve:    staffRoles,
	ReservationsDelete:      staffRoles,
	ReservationsUpdateDates: staffRoles,
	ReservationsUpdateRoom:  staffRoles,

	UsersList:     staffRoles,
	UsersRetrieve: staffRoles,
	UsersCreate:   adminOnly,
	UsersUpdate:   adminOnly,
	UsersDelete:   adminOnly,

	RolesList: adminOnly,
}

// ownedActions may also be performed by the owner of the target object.
var ownedActions = map[Action]bool{
	ReservationsRetrieve: true,
	UsersRetrieve:        true,
}

// Allowed reports whether role may perform action regardless of ownership.
func Allowed(role models.Role, action Action) bool {
	for _, r := range permissionTable[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccessOwned reports whether user may perform action on an object owned by ownerID.
func CanAccessOwned(user models.User, action Action, ownerID *uint) bool {
	if Allowed(user.Role, action) {
		return true
	}
	return ownedActions[action] && ownerID != nil && *ownerID == user.ID
}

// GrantsOwnership reports whether action can be satisfied by owning the target.
func GrantsOwnership(action Action) bool {
	return ownedActions[action]
}

// PermissionsByRole renders the table as role -> module -> action -> allowed.
func PermissionsByRole() map[models.Role]map[string]map[string]bool {
	out := make(map[models.Role]map[string]map[string]bool, len(models.AllRoles))
	for _, role := range models.AllRoles {
		modules := map[string]map[string]bool{}
		for action := range permissionTable {
			module, verb := splitAction(action)
			if _, ok := modules[module]; !ok {
				modules[module] = map[string]bool{}
			}
			modules[module][verb] = Allowed(role, action)
		}
		out[role] = modules
	}
	return out
}

// Actions returns every known action, sorted.
func Actions() []Action {
	list := make([]Action, 0, len(permissionTable))
	for a := range permissionTable {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

func splitAction(a Action) (string, string) {
	module, verb, _ := strings.Cut(string(a), ".")
	return module, verb
}
