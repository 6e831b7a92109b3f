// Package builder turns validated options into the final, signed request.
//
// Build runs body resolution, header assembly and signing in that order and
// applies the signing augmentation last, so signed headers win over every
// other header of the same name. It performs no network I/O; files are read
// through an injected body.FileReader and time comes from an injected clock.
package builder
