package models

import "fmt"

// Privacy is the visibility tier shared by Course, Recording and Teacher.
type Privacy int

const (
	PrivacyPrivate  Privacy = 0
	PrivacyShared   Privacy = 1
	PrivacyPublic   Privacy = 2
	PrivacyFeatured Privacy = 3 // teachers only, staff only
)

func (p Privacy) String() string {
	switch p {
	case PrivacyPrivate:
		return "private"
	case PrivacyShared:
		return "shared"
	case PrivacyPublic:
		return "public"
	case PrivacyFeatured:
		return "featured"
	default:
		return fmt.Sprintf("privacy(%d)", int(p))
	}
}

// ValidForContent reports whether p is a legal level for courses and recordings.
func (p Privacy) ValidForContent() bool {
	return p >= PrivacyPrivate && p <= PrivacyPublic
}

// ValidForTeacher reports whether p is a legal level for teachers.
func (p Privacy) ValidForTeacher() bool {
	return p >= PrivacyPrivate && p <= PrivacyFeatured
}

// ClampTeacherPrivacy downgrades FEATURED to PUBLIC for non-staff users.
func ClampTeacherPrivacy(requested Privacy, isStaff bool) Privacy {
	if requested == PrivacyFeatured && !isStaff {
		return PrivacyPublic
	}
	return requested
}

// InheritPrivacy returns the level a course must be stored with given its
// parent. A private child of a shared or public parent takes the parent's
// level; anything else is kept. Only the immediate parent is considered.
func InheritPrivacy(requested Privacy, parent *Course) Privacy {
	if parent == nil {
		return requested
	}
	if parent.Privacy > PrivacyPrivate && requested == PrivacyPrivate {
		return parent.Privacy
	}
	return requested
}
