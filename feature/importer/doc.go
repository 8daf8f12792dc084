// Package importer drives a full inventory import into the registry.
//
// An import runs in three steps. Plan reads devices from a source, skips
// those without a model or already registered, reconciles the remaining
// models to device types and works out which sites and locations are
// missing. The plan is rendered for the operator and confirmed. Apply then
// creates sites, locations, roles, devices, management interfaces and IP
// addresses through get-or-create calls, so a rerun only fills gaps.
package importer
