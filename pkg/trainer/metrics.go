package trainer

import "sort"

// classificationCounts derives confusion counts at the 0.5 cutoff.
func classificationCounts(labels, predictions []float64) (tp, fp, tn, fn float64) {
	for i, label := range labels {
		positive := predictions[i] > 0.5
		switch {
		case positive && label > 0.5:
			tp++
		case positive:
			fp++
		case label > 0.5:
			fn++
		default:
			tn++
		}
	}

	return tp, fp, tn, fn
}

// Accuracy, precision, recall and F1 with the 0-on-zero-denominator
// convention: an all-negative batch yields 0, never a division failure.
func classificationMetrics(labels, predictions []float64) (accuracy, precision, recall, f1 float64) {
	if len(labels) == 0 {
		return 0, 0, 0, 0
	}

	tp, fp, tn, fn := classificationCounts(labels, predictions)

	accuracy = (tp + tn) / float64(len(labels))
	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return accuracy, precision, recall, f1
}

// AUC computes the area under the ROC curve via the rank-sum
// (Mann-Whitney) statistic, with average ranks for tied scores. When the
// labels contain a single class AUC is undefined; the sentinel 0 is
// returned instead of an error.
func AUC(labels, scores []float64) float64 {
	n := len(labels)
	if n == 0 {
		return 0
	}

	var npos, nneg float64
	for _, label := range labels {
		if label > 0.5 {
			npos++
		} else {
			nneg++
		}
	}
	if npos == 0 || nneg == 0 {
		return 0
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	// Average ranks across tie groups, then sum ranks of positives.
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[idx[j]] == scores[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	var rankSum float64
	for i, label := range labels {
		if label > 0.5 {
			rankSum += ranks[i]
		}
	}

	return (rankSum - npos*(npos+1)/2) / (npos * nneg)
}
