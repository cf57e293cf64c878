// Package challenge implements the wake-up tasks gating alarm dismissal:
// math problems with a server-held solution and scan-code matching for QR
// and barcode tasks.
package challenge
