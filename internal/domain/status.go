package domain

// ListingStatus is the lifecycle marker stored in property_listings.status.
type ListingStatus int

const (
	StatusDraft           ListingStatus = 1
	StatusPendingApproval ListingStatus = 2
	StatusPublished       ListingStatus = 3
	StatusUnlisted        ListingStatus = 4
	StatusBlocked         ListingStatus = 5
	StatusDeleted         ListingStatus = 6
)

func (s ListingStatus) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPendingApproval:
		return "pending_approval"
	case StatusPublished:
		return "published"
	case StatusUnlisted:
		return "unlisted"
	case StatusBlocked:
		return "blocked"
	case StatusDeleted:
		return "deleted"
	}
	return "unknown"
}

// Valid reports whether s is one of the defined states.
func (s ListingStatus) Valid() bool {
	return s >= StatusDraft && s <= StatusDeleted
}

// CanPublish reports whether an owner may move the listing to published.
// Blocked and deleted listings never reach the owner's handlers, but the
// check is kept here so the rule lives next to the states.
func (s ListingStatus) CanPublish() bool {
	return s == StatusDraft || s == StatusPendingApproval || s == StatusPublished || s == StatusUnlisted
}

// ToggleBlocked returns the admin block-toggle target: blocked goes back to
// published, everything else becomes blocked.
func (s ListingStatus) ToggleBlocked() ListingStatus {
	if s == StatusBlocked {
		return StatusPublished
	}
	return StatusBlocked
}

// HiddenFromAdmin lists statuses excluded from the admin property list.
var HiddenFromAdmin = []ListingStatus{StatusDeleted, StatusDraft}

// Answers to the hosting questionnaire.
const (
	RentedBeforeIHave  = 1
	RentedBeforeIAmNew = 2

	HaveGuestsNotSureYet        = 1
	HaveGuestsPartTime          = 2
	HaveGuestsAsOftenAsPossible = 3
)

// NoticeDays are the accepted advance-notice values (days before arrival).
var NoticeDays = []int{0, 1, 2, 3, 7}
