// Package secgroup reconciles flat-list security groups on NSX policy
// endpoints.
//
// Unlike the firewall side there are no per-member objects to create or
// delete: the whole group document, expression included, is written in one
// patch whenever the observed value set differs from the desired one.
package secgroup
