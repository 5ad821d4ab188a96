package gost89

const (
	Rounds    = 32
	RoundKeys = 8
)

// Direction selects which key schedule and round transform apply.
type Direction int

const (
	Encryption Direction = iota
	Decryption
)

func (d Direction) String() string {
	switch d {
	case Encryption:
		return "encryption"
	case Decryption:
		return "decryption"
	}
	return "unknown"
}

// RoundKey returns the key used by round i in direction dir. keys must hold
// exactly RoundKeys entries and i must be in [0, Rounds).
//
// Encryption walks K0..K7 three times and then K7..K0. Decryption consumes
// the same sequence backwards: K0..K7 once and then K7..K0 three times.
func RoundKey(i int, dir Direction, keys []uint32) uint32 {
	if dir == Decryption {
		i = Rounds - 1 - i
	}
	if i < 24 {
		return keys[i%8]
	}
	return keys[7-i%8]
}

// Schedule expands keys into the full sequence of round keys for dir.
func Schedule(dir Direction, keys []uint32) ([Rounds]uint32, error) {
	var ks [Rounds]uint32
	if err := checkKeys(keys); err != nil {
		return ks, err
	}
	for i := range ks {
		ks[i] = RoundKey(i, dir, keys)
	}
	return ks, nil
}
