// Package capture extracts values from probe responses for use in later requests.
//
// The Orange API wraps every payload in an envelope:
//
//	{ "code": 0, "msg": "ok", "data": { "id": 42, ... } }
//
// ExtractID pulls data.id out of that envelope so a chain can address the
// entity it just created. CheckEnvelope reports whether a body has the
// envelope shape at all.
package capture
