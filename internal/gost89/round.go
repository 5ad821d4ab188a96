package gost89

// EncryptRound is one Feistel step: the right half moves left and the new
// right half is left ^ f(right).
func EncryptRound(left, right, roundKey uint32, s *SBox) (uint32, uint32) {
	return right, left ^ s.F(right, roundKey)
}

// DecryptRound undoes EncryptRound when given the same round key.
func DecryptRound(left, right, roundKey uint32, s *SBox) (uint32, uint32) {
	return right ^ s.F(left, roundKey), left
}
