package archive

// crcPolynomial is the reflected form of the IEEE 802.3 polynomial.
const crcPolynomial = 0xEDB88320

// crcTable is built once at package initialisation and never written again,
// so it is safe to share between concurrent builds.
var crcTable = buildCRCTable()

func buildCRCTable() *[256]uint32 {
	var table [256]uint32
	for n := 0; n < 256; n++ {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[n] = c
	}
	return &table
}

// CRCTable returns the shared CRC-32 lookup table. Callers must not modify it.
func CRCTable() *[256]uint32 {
	return crcTable
}

// Checksum computes the CRC-32 (IEEE) checksum of data.
func Checksum(data []byte) uint32 {
	return Update(0, data)
}

// Update continues a checksum previously returned by Checksum or Update with
// more data. Update(Update(0, a), b) equals Checksum(append(a, b...)).
func Update(crc uint32, data []byte) uint32 {
	crc = ^crc
	for _, b := range data {
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}
	return ^crc
}
