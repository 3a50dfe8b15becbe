// Package identity carries the authenticated caller through a request.
//
// The middleware builds an Identity from verified token claims and stores it
// in the request context; handlers read it back with Get.
//
//	id := identity.FromClaims(claims).WithRemoteIP(clientIP)
//	ctx = identity.Set(ctx, id)
//
//	id, ok := identity.Get(ctx)
//
// Guest identities are issued by the guest authenticator and have a
// "guest-" prefixed UserID.
package identity
