// Package catalyst reads network devices from Cisco Catalyst Center.
//
// The client authenticates with a token request and lists devices of one
// family. The platform id of a device (first entry for stacks) is its
// observed model; it is compared against registry part numbers.
package catalyst
