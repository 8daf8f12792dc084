// Package spreadsheet reads devices from a CSV inventory file.
//
// The file has a header row naming the columns Name, ManagementIP,
// DeviceType, SerialNumber, Custom_SWVer, Custom_Function, Site, Location,
// AreaRoom and Comments. Lines starting with '#' are ignored. Only Name and
// DeviceType are required.
package spreadsheet
