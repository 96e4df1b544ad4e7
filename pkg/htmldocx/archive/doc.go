// Package archive writes ZIP archives whose entries are all stored without
// compression.
//
// The writer produces the three ZIP sections in a single pass: each entry's
// local file header followed by its bytes, then the central directory, then
// the end-of-central-directory record. Timestamps are always zero, so the
// output depends only on the names, contents and order of the entries.
//
// Zip64 is not supported: entries and the archive itself are limited to
// 4 GiB and 65535 entries. Exceeding those limits, reusing a name, or using
// a name that is not relative printable ASCII panics, because callers build
// their entry lists from fixed part names.
//
// The CRC-32 implementation uses the reflected IEEE polynomial with a
// lookup table computed once per process.
package archive
