// internal/app/system/enrollment/enrollment.go

// Package enrollment decodes the academic fields encoded in a student's
// enrollment ID (their username). The format is positional:
//
//	2022UGCS042
//	^^^^        admission year
//	    ^^      course level (UG or PG)
//	      ^^    branch code
package enrollment

import (
	"errors"
	"strconv"
)

// Academic holds the fields derived from an enrollment ID. These are
// never supplied by the student directly.
type Academic struct {
	AdmissionYear int
	Course        string
	Branch        string
}

// ErrBadEnrollmentID indicates the username is too short or does not
// start with a numeric year.
var ErrBadEnrollmentID = errors.New("enrollment ID must start with a four-digit year followed by course and branch codes")

var courseByCode = map[string]string{
	"UG": "B.Tech",
	"PG": "M.Tech",
}

var branchByCode = map[string]string{
	"CS": "Computer Science & Engineering",
	"EC": "Electronics & Communication Engineering",
	"ME": "Mechanical Engineering",
	"CE": "Civil Engineering",
	"EE": "Electrical Engineering",
	"MM": "Metallurgical & Materials Engineering",
}

// Decode extracts the academic fields from an enrollment ID. Unknown
// course or branch codes pass through verbatim rather than failing, so
// new programmes do not block profile submission.
func Decode(username string) (Academic, error) {
	if len(username) < 8 {
		return Academic{}, ErrBadEnrollmentID
	}

	year, err := strconv.Atoi(username[0:4])
	if err != nil {
		return Academic{}, ErrBadEnrollmentID
	}

	levelCode := username[4:6]
	branchCode := username[6:8]

	course, ok := courseByCode[levelCode]
	if !ok {
		course = levelCode
	}
	branch, ok := branchByCode[branchCode]
	if !ok {
		branch = branchCode
	}

	return Academic{AdmissionYear: year, Course: course, Branch: branch}, nil
}
