package domain

// Resource is a closed set of trackable, permissionable entity kinds. The
// values match the table names used by the revision log and the group grant
// maps, so the set changes only alongside a schema migration.
type Resource string

const (
	ResourceUsers                Resource = "users"
	ResourceSitters              Resource = "sitters"
	ResourceDogs                 Resource = "dogs"
	ResourceBookings             Resource = "bookings"
	ResourceReviews              Resource = "reviews"
	ResourceDogBreeds            Resource = "dog_breeds"
	ResourceSitterCertificates   Resource = "sitter_certificates"
	ResourceSitterServices       Resource = "sitter_services"
	ResourceAvailability         Resource = "availability"
	ResourceUnavailableDates     Resource = "unavailable_dates"
	ResourceAdminUsers           Resource = "admin_users"
	ResourceOAuthAccounts        Resource = "oauth_accounts"
	ResourceUserGroups           Resource = "user_groups"
	ResourceUserGroupMemberships Resource = "user_group_memberships"
	ResourceGroupPermissions     Resource = "group_permissions"
	ResourceUserPermissions      Resource = "user_permissions"
	ResourceRevisions            Resource = "revisions"
	ResourceSitterBreedSpecialty Resource = "sitter_breed_specialties"
)

// Resources lists every tracked resource in declaration order.
func Resources() []Resource {
	return []Resource{
		ResourceUsers,
		ResourceSitters,
		ResourceDogs,
		ResourceBookings,
		ResourceReviews,
		ResourceDogBreeds,
		ResourceSitterCertificates,
		ResourceSitterServices,
		ResourceAvailability,
		ResourceUnavailableDates,
		ResourceAdminUsers,
		ResourceOAuthAccounts,
		ResourceUserGroups,
		ResourceUserGroupMemberships,
		ResourceGroupPermissions,
		ResourceUserPermissions,
		ResourceRevisions,
		ResourceSitterBreedSpecialty,
	}
}

// compositeKeys declares, per resource, the ordered snapshot fields that form
// its identity when there is no single "id" column. Keys are numeric, so the
// ":" separator cannot collide with key content.
var compositeKeys = map[Resource][]string{
	ResourceUserGroupMemberships: {"user_id", "group_id"},
	ResourceSitterBreedSpecialty: {"sitter_id", "breed_id"},
}

// KeyFields returns the ordered snapshot fields that identify one record of
// this resource. The default identity is the single "id" field.
func (r Resource) KeyFields() []string {
	if fields, ok := compositeKeys[r]; ok {
		return fields
	}
	return []string{"id"}
}

// Valid reports whether r is a member of the closed resource set.
func (r Resource) Valid() bool {
	switch r {
	case ResourceUsers, ResourceSitters, ResourceDogs, ResourceBookings,
		ResourceReviews, ResourceDogBreeds, ResourceSitterCertificates,
		ResourceSitterServices, ResourceAvailability, ResourceUnavailableDates,
		ResourceAdminUsers, ResourceOAuthAccounts, ResourceUserGroups,
		ResourceUserGroupMemberships, ResourceGroupPermissions,
		ResourceUserPermissions, ResourceRevisions, ResourceSitterBreedSpecialty:
		return true
	}
	return false
}

// PermissionLevel is an ordered access level. The order read < write < admin
// is used to resolve conflicting grants: the highest level wins.
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionAdmin PermissionLevel = "admin"
)

// levelRank gives the total order over permission levels. Unknown levels rank
// below read so they never win a merge.
var levelRank = map[PermissionLevel]int{
	PermissionRead:  1,
	PermissionWrite: 2,
	PermissionAdmin: 3,
}

// Valid reports whether l is a recognised permission level.
func (l PermissionLevel) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// Covers reports whether a grant of level l satisfies a requirement of level
// required.
func (l PermissionLevel) Covers(required PermissionLevel) bool {
	return levelRank[l] >= levelRank[required] && levelRank[required] > 0
}

// MaxLevel returns the stronger of two levels.
func MaxLevel(a, b PermissionLevel) PermissionLevel {
	if levelRank[b] > levelRank[a] {
		return b
	}
	return a
}
