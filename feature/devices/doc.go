// Package devices implements maintenance of the device registry: listing,
// full replacement, deletion, status toggling, batch lookups and the
// whitelist/blacklist spreadsheet import and export.
//
// # HTTP Endpoints
//
//   - GET /devices : List every device.
//   - POST /devices : Replace the device list.
//   - DELETE /devices/:materialId : Remove every record of a material id.
//   - POST /devices/delete : Bulk delete by material id.
//   - POST /devices/match : Look (materialId, model) pairs up.
//   - POST /devices/:materialId/toggle?model= : Flip whitelisted and blacklisted.
//   - POST /devices/import/whitelist, /devices/import/blacklist : Import a spreadsheet.
//   - GET /devices/export/blacklist : Download the importable blacklist.
//   - GET /devices/export/library/:model : Download the spare library ("all" for every model).
package devices
