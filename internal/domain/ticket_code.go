package domain

import "github.com/google/uuid"

// TicketCodePrefix precedes every generated ticket code.
const TicketCodePrefix = "SR"

const (
	ticketTokenLen      = 8
	ticketTokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// ticketTokenCutoff is the largest multiple of the alphabet size that fits
	// in a byte. Bytes at or above it are discarded so every symbol is equally
	// likely.
	ticketTokenCutoff = 256 - 256%len(ticketTokenAlphabet)
)

// GenerateTicketCode returns a code such as "SR-7QK2M0ZD". Uniqueness is not
// checked here; the unique index on the column is the backstop.
func GenerateTicketCode() string {
	token := make([]byte, 0, ticketTokenLen)
	for len(token) < ticketTokenLen {
		token = appendTokenSymbols(token, uuidRandomBytes(uuid.New()))
	}
	return TicketCodePrefix + "-" + string(token)
}

// uuidRandomBytes drops bytes 6 and 8, which carry the v4 version/variant bits.
func uuidRandomBytes(u uuid.UUID) []byte {
	out := make([]byte, 0, len(u)-2)
	for i, b := range u {
		if i == 6 || i == 8 {
			continue
		}
		out = append(out, b)
	}
	return out
}

func appendTokenSymbols(token, random []byte) []byte {
	for _, b := range random {
		if len(token) == ticketTokenLen {
			break
		}
		if int(b) >= ticketTokenCutoff {
			continue
		}
		token = append(token, ticketTokenAlphabet[int(b)%len(ticketTokenAlphabet)])
	}
	return token
}
