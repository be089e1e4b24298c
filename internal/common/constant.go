package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token inside the Authorization header.
const BearerPrefix = "Bearer "

// RefreshTokenByteLength is the number of random bytes in a refresh token
// before hex encoding. The resulting opaque string is twice as long.
const RefreshTokenByteLength = 64
