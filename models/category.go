package models

// Category classifies an account as a school (junior) or college (senior)
// student. It is set at registration and never changes afterwards.
type Category string

const (
	CategorySchool  Category = "school"
	CategoryCollege Category = "college"
)

// Valid reports whether c is one of the two known categories.
func (c Category) Valid() bool {
	return c == CategorySchool || c == CategoryCollege
}

// SearchTarget returns the category a requester of category c is allowed to
// see in search results. Both school and college students browse college
// profiles; school students never appear in search.
func (c Category) SearchTarget() Category {
	return CategoryCollege
}

// RequestPolicy holds the configurable eligibility rules for connection
// requests and search access.
type RequestPolicy struct {
	// AllowCollegeToCollege permits college students to request other
	// college students and to use search. When false only school students
	// may initiate, and only toward college students.
	AllowCollegeToCollege bool
}

// CanRequest reports whether a sender of category `from` may send a
// connection request to a receiver of category `to`. The full matrix:
//
//	school  -> college   always
//	college -> college   only when AllowCollegeToCollege
//	school  -> school    never
//	college -> school    never
func (p RequestPolicy) CanRequest(from, to Category) bool {
	switch {
	case from == CategorySchool && to == CategoryCollege:
		return true
	case from == CategoryCollege && to == CategoryCollege:
		return p.AllowCollegeToCollege
	default:
		return false
	}
}

// CanSearch reports whether a requester of category c may use the search
// feature under this policy.
func (p RequestPolicy) CanSearch(c Category) bool {
	if c == CategorySchool {
		return true
	}
	return c == CategoryCollege && p.AllowCollegeToCollege
}
