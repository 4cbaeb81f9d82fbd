package morph

// Key names one blend shape clip of an avatar.
type Key string

// preset clip names, as avatars usually ship them
const (
	Neutral Key = "Neutral"

	A Key = "A"
	I Key = "I"
	U Key = "U"
	E Key = "E"
	O Key = "O"

	Blink  Key = "Blink"
	BlinkL Key = "Blink_L"
	BlinkR Key = "Blink_R"

	Joy    Key = "Joy"
	Angry  Key = "Angry"
	Sorrow Key = "Sorrow"
	Fun    Key = "Fun"

	LookUp    Key = "LookUp"
	LookDown  Key = "LookDown"
	LookLeft  Key = "LookLeft"
	LookRight Key = "LookRight"
)

// LipSyncKeys are the vowel shapes driven by lip-sync.
var LipSyncKeys = [...]Key{A, I, U, E, O}

func IsLipSync(k Key) bool {
	for _, l := range LipSyncKeys {
		if l == k {
			return true
		}
	}
	return false
}

// Vowel maps a lower-case vowel letter to its lip-sync key.
func Vowel(r rune) (k Key, ok bool) {
	switch r {
	case 'a':
		return A, true
	case 'i':
		return I, true
	case 'u':
		return U, true
	case 'e':
		return E, true
	case 'o':
		return O, true
	}
	return
}
