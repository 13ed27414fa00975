package draw

import "fmt"

// NextPowerOfTwo returns the smallest power of two >= n, n >= 1.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// BracketSize returns the bracket size for n participants. Brackets
// never shrink below 2 slots.
func BracketSize(n int) int {
	if n < 2 {
		n = 2
	}
	return NextPowerOfTwo(n)
}

// ByeCount returns the number of structural byes for n participants.
func ByeCount(n int) int {
	return BracketSize(n) - n
}

// DistributeByes assigns the byes to the strongest seeds: seeds
// 1..byeCount advance without playing round one.
func DistributeByes(n int) []int {
	count := ByeCount(n)
	out := make([]int, 0, count)
	for seed := 1; seed <= count; seed++ {
		out = append(out, seed)
	}
	return out
}

// TotalRounds returns the round count of a bracket, bracketSize a
// power of two >= 2.
func TotalRounds(bracketSize int) int {
	rounds := 0
	for size := bracketSize; size > 1; size >>= 1 {
		rounds++
	}
	return rounds
}

// StandardPairing returns the canonical single-elimination first-round
// seed pairs [i, bracketSize+1-i]: 1 vs last, 2 vs second-last, and so
// on. Seeds 1 and 2 cannot meet before the final in a full bracket.
func StandardPairing(bracketSize int) [][2]int {
	pairs := make([][2]int, 0, bracketSize/2)
	for i := 1; i <= bracketSize/2; i++ {
		pairs = append(pairs, [2]int{i, bracketSize + 1 - i})
	}
	return pairs
}

// RoundName labels a round by its reversed number (1 = final).
func RoundName(roundNumber int) string {
	switch roundNumber {
	case 1:
		return "Final"
	case 2:
		return "Semi-Final"
	case 3:
		return "Quarter-Final"
	}
	players := 1 << roundNumber
	if players <= 64 {
		return fmt.Sprintf("Round of %d", players)
	}
	return fmt.Sprintf("Round %d", roundNumber)
}

// RoundNames returns the labels of every round in play order, first
// round played first.
func RoundNames(totalRounds int) []string {
	out := make([]string, 0, totalRounds)
	for round := totalRounds; round >= 1; round-- {
		out = append(out, RoundName(round))
	}
	return out
}
