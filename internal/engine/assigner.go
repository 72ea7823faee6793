package engine

import (
	"github.com/juryline/engine/internal/domain"
)

// RoundRobin computes a balanced judge-to-submission assignment set using
// cyclic round-robin traversal of the judge roster.
//
// Each submission receives min(judgesPerSubmission, len(judges)) distinct
// judges. The traversal pointer advances one slot per pick and is never
// reset between submissions; carrying it across the whole batch is what
// spreads load evenly. When the judge at the current slot already holds this
// submission, the pointer advances again, with retries bounded by the roster
// size, so a submission never receives the same judge twice.
//
// JudgeLoads counts only assignments made during this run. A judge's
// pre-existing CurrentLoad is informational for the external agent and does
// not bias selection here; the fallback is deliberately load-naive.
//
// An empty roster or submission list yields an empty result labeled
// StrategyRoundRobin. The function never fails.
func RoundRobin(judges []domain.Judge, submissions []domain.Submission, judgesPerSubmission int) domain.AssignmentResult {
	if len(judges) == 0 || len(submissions) == 0 {
		return domain.AssignmentResult{
			Assignments: []domain.AssignmentPair{},
			JudgeLoads:  map[string]int{},
			Strategy:    domain.StrategyRoundRobin,
		}
	}

	nJudges := len(judges)
	perSubmission := judgesPerSubmission
	if perSubmission > nJudges {
		perSubmission = nJudges
	}
	if perSubmission < 0 {
		perSubmission = 0
	}

	assignments := make([]domain.AssignmentPair, 0, len(submissions)*perSubmission)
	loads := make(map[string]int, nJudges)
	for _, j := range judges {
		loads[j.ID] = 0
	}

	cursor := 0
	for _, sub := range submissions {
		assigned := make(map[string]struct{}, perSubmission)

		for range perSubmission {
			// Skip judges already holding this submission; bounded so a
			// fully-assigned roster cannot spin.
			attempts := 0
			for {
				if _, dup := assigned[judges[cursor%nJudges].ID]; !dup || attempts >= nJudges {
					break
				}
				cursor++
				attempts++
			}

			judgeID := judges[cursor%nJudges].ID
			assigned[judgeID] = struct{}{}
			assignments = append(assignments, domain.AssignmentPair{
				JudgeID:      judgeID,
				SubmissionID: sub.ID,
			})
			loads[judgeID]++
			cursor++
		}
	}

	return domain.AssignmentResult{
		Assignments: assignments,
		JudgeLoads:  loads,
		Strategy:    domain.StrategyBalancedRoundRobin,
	}
}

// vetProposal decides whether an agent-proposed assignment set is usable.
// A proposal is declined when it is empty while judges and submissions both
// exist, references unknown judge or submission ids, or repeats a
// (judge, submission) pair. A declined proposal routes the caller to the
// deterministic fallback.
func vetProposal(result *domain.AssignmentResult, judges []domain.Judge, submissions []domain.Submission) bool {
	if result == nil {
		return false
	}
	if len(result.Assignments) == 0 {
		return len(judges) == 0 || len(submissions) == 0
	}

	judgeIDs := make(map[string]struct{}, len(judges))
	for _, j := range judges {
		judgeIDs[j.ID] = struct{}{}
	}
	subIDs := make(map[string]struct{}, len(submissions))
	for _, s := range submissions {
		subIDs[s.ID] = struct{}{}
	}

	seen := make(map[domain.AssignmentPair]struct{}, len(result.Assignments))
	for _, pair := range result.Assignments {
		if _, ok := judgeIDs[pair.JudgeID]; !ok {
			return false
		}
		if _, ok := subIDs[pair.SubmissionID]; !ok {
			return false
		}
		if _, dup := seen[pair]; dup {
			return false
		}
		seen[pair] = struct{}{}
	}
	return true
}

// loadsFromPairs recomputes the per-judge load map for an accepted agent
// proposal so the reported loads always reflect the installed set, whatever
// the agent claimed.
func loadsFromPairs(judges []domain.Judge, pairs []domain.AssignmentPair) map[string]int {
	loads := make(map[string]int, len(judges))
	for _, j := range judges {
		loads[j.ID] = 0
	}
	for _, p := range pairs {
		loads[p.JudgeID]++
	}
	return loads
}
