// Package nsx is the security-platform driver for the NSX policy API. The
// sync core only needs two operations on groups: read one (GetGroup) and
// create-or-replace one (PatchGroup).
package nsx
