package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeInYear calculates the age reached during a calendar year, ignoring the
// month and day of the reference date. Projections advance in whole years, so
// a person's age in year Y is their age at the reference date plus (Y - the
// reference date's year).
func AgeInYear(ageAtReference, referenceYear, year int) int {
	return ageAtReference + (year - referenceYear)
}

// DaysInYear returns the number of days in a calendar year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// IsLeapYear reports whether a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
