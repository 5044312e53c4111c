package application

import "github.com/SanketZore/Job-Portal-CyberNX/internal/model"

// transitionTable は選考状態の遷移を許可するかどうかを定義する。
// 現在はすべての状態間の遷移を許可している（雇用者がaccepted→pendingの
// ような差し戻しを自由に行える）。ポリシーを厳格化する場合は
// このテーブルだけを変更すればよく、呼び出し側の修正は不要。
var transitionTable = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationStatusPending:  {model.ApplicationStatusReviewed, model.ApplicationStatusAccepted, model.ApplicationStatusRejected},
	model.ApplicationStatusReviewed: {model.ApplicationStatusPending, model.ApplicationStatusAccepted, model.ApplicationStatusRejected},
	model.ApplicationStatusAccepted: {model.ApplicationStatusPending, model.ApplicationStatusReviewed, model.ApplicationStatusRejected},
	model.ApplicationStatusRejected: {model.ApplicationStatusPending, model.ApplicationStatusReviewed, model.ApplicationStatusAccepted},
}

// canTransition は現在の選考状態から指定状態への遷移が許可されているかを返す。
// 同一状態への遷移（no-op）は常に許可する。
func canTransition(from, to model.ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
