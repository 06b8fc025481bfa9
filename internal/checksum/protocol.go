package checksum

// Header computes the header checksum of a fixed entry record. record must
// be the full fixed-size header; its trailing 8-byte checksum field is
// excluded.
func Header(record []byte) uint64 {
	if len(record) < 8 {
		return CRC64(nil, HeaderSeed)
	}
	return CRC64(record[:len(record)-8], HeaderSeed)
}

// Data computes the data checksum of a blob.
//
// Blobs up to DataPrefixSize bytes are checksummed in full. Larger blobs
// combine the checksum of the first DataPrefixSize bytes with a second
// running checksum over the first DataSampleSize bytes of every DataStride
// chunk that follows (including a partial final chunk). Bytes outside the
// sampled windows do not influence the result.
func Data(data []byte) uint64 {
	if len(data) <= DataPrefixSize {
		return CRC64(data, DataSeed)
	}
	prefix := CRC64(data[:DataPrefixSize], DataSeed)
	return prefix ^ sampled(data[DataPrefixSize:])
}

func sampled(rest []byte) uint64 {
	crc := DataSeed
	for off := 0; off < len(rest); off += DataStride {
		end := min(off+DataSampleSize, len(rest))
		crc = Update(crc, rest[off:end])
	}
	return crc
}
