// Package wireless reads access points from Cisco wireless LAN controllers
// over NETCONF and turns them into inventory devices.
//
// Each configured controller is queried with a subtree-filtered get of the
// access-point operational model (capwap-data). The site tag of an access
// point becomes the device location; the controller's configured site, when
// set, becomes the device site.
package wireless
