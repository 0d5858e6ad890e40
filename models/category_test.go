package models

import "testing"

func TestCategoryValid(t *testing.T) {
	if !CategorySchool.Valid() || !CategoryCollege.Valid() {
		t.Error("known categories reported invalid")
	}
	if Category("teacher").Valid() || Category("").Valid() {
		t.Error("unknown category reported valid")
	}
}

func TestCanRequestMatrix(t *testing.T) {
	cases := []struct {
		from, to Category
		allow    bool
		want     bool
	}{
		{CategorySchool, CategoryCollege, false, true},
		{CategorySchool, CategoryCollege, true, true},
		{CategorySchool, CategorySchool, false, false},
		{CategorySchool, CategorySchool, true, false},
		{CategoryCollege, CategorySchool, false, false},
		{CategoryCollege, CategorySchool, true, false},
		{CategoryCollege, CategoryCollege, false, false},
		{CategoryCollege, CategoryCollege, true, true},
	}
	for _, tc := range cases {
		policy := RequestPolicy{AllowCollegeToCollege: tc.allow}
		if got := policy.CanRequest(tc.from, tc.to); got != tc.want {
			t.Errorf("CanRequest(%s, %s) with allow=%v = %v, want %v", tc.from, tc.to, tc.allow, got, tc.want)
		}
	}
}

func TestCanSearch(t *testing.T) {
	restricted := RequestPolicy{}
	if !restricted.CanSearch(CategorySchool) {
		t.Error("school students must always be able to search")
	}
	if restricted.CanSearch(CategoryCollege) {
		t.Error("college search must be off by default")
	}
	if !(RequestPolicy{AllowCollegeToCollege: true}).CanSearch(CategoryCollege) {
		t.Error("college search must follow the toggle")
	}
}
