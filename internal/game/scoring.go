package game

// Troops (score) awarded by the 0-based row a solve lands on
var troopsByRow = [6]int{150, 100, 60, 40, 30, 10}

// Coins awarded by solving row
var coinsByRow = [6]int{6, 5, 4, 3, 2, 1}

// CoinsOnFail is the flat consolation award on an exhausted board.
// Coins always accrue, win or lose, to keep the shop economy flowing.
const CoinsOnFail = 2

// DefaultMaxRows is the standard guess budget per day
const DefaultMaxRows = 6

// DoubleDownMaxRows is the shortened budget while Double Down is active
const DoubleDownMaxRows = 3

// TroopsForRow returns the score for a solve on the given 0-based row
func TroopsForRow(row int) int {
	if row < 0 || row >= len(troopsByRow) {
		return 0
	}
	return troopsByRow[row]
}

// CoinsForRow returns the coin award for a solve on the given 0-based row
func CoinsForRow(row int) int {
	if row < 0 || row >= len(coinsByRow) {
		return 1
	}
	return coinsByRow[row]
}

// MaxRows computes the effective row budget for a day. Double Down
// shortens the board to three rows; an executioner's cut takes one more,
// floor one.
func MaxRows(doubleDown, executionersCut bool) int {
	rows := DefaultMaxRows
	if doubleDown {
		rows = DoubleDownMaxRows
	}
	if executionersCut {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// DoubleDownQualifies reports whether a solve on the given 0-based row
// earns the Double Down multiplier.
func DoubleDownQualifies(row int) bool {
	return row < DoubleDownMaxRows
}
