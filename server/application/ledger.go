package application

// WinnerLedger は表示名ごとの勝利数を集計します。
// 排他制御は呼び出し側（Battleship）が行います。
type WinnerLedger struct {
	wins  map[string]int
	order []string
}

func NewWinnerLedger() *WinnerLedger {
	return &WinnerLedger{
		wins: make(map[string]int),
	}
}

// RecordWin は指定した表示名の勝利数を1だけ増やします。未登録なら作成します。
func (l *WinnerLedger) RecordWin(name string) {
	if _, ok := l.wins[name]; !ok {
		l.order = append(l.order, name)
	}
	l.wins[name]++
}

func (l *WinnerLedger) Wins(name string) int {
	return l.wins[name]
}

// Snapshot は配信用の読み取り専用プロジェクションを挿入順で返します。
func (l *WinnerLedger) Snapshot() []WinnerEntry {
	entries := make([]WinnerEntry, 0, len(l.order))
	for _, name := range l.order {
		entries = append(entries, WinnerEntry{Name: name, Wins: l.wins[name]})
	}
	return entries
}
