package contract

// Draw selects the winning index for a participant count n from the step's
// random byte sequence: the first byte strictly below n is the index. Bytes at
// or above n are rejected to keep the draw uniform; a modulo over the full
// byte domain would bias small counts. When every byte is rejected the draw is
// unresolved for this step and must be retried with a fresh sequence.
func Draw(seed []byte, n int) (int, bool) {
	if n <= 0 || n > MaxParticipants {
		return 0, false
	}

	for _, b := range seed {
		if int(b) < n {
			return int(b), true
		}
	}

	return 0, false
}

// fallbackDraw is the biased terminal draw used once MaxDrawAttempts is
// reached: the first byte reduced modulo n. Termination over fairness.
func fallbackDraw(seed []byte, n int) int {
	if len(seed) == 0 || n <= 0 {
		return 0
	}

	return int(seed[0]) % n
}
