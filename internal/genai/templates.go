package genai

import "github.com/quizforge/quizforge-portal/internal/quiz"

type template struct {
	text        string
	options     []string // multiple-choice only
	answer      string
	explanation string
}

type bank struct {
	byType map[string][]template
}

func (b bank) pick(questionType string, i int) *template {
	list := b.byType[questionType]
	if len(list) == 0 {
		return nil
	}
	t := list[i%len(list)]
	return &t
}

var topicBanks = map[string]bank{
	"Data Structures": {byType: map[string][]template{
		quiz.TypeMultipleChoice: {
			{
				text:        "What is the time complexity of inserting an element at the beginning of a linked list?",
				options:     []string{"O(1)", "O(n)", "O(log n)", "O(n²)"},
				answer:      "O(1)",
				explanation: "Inserting at the head of a linked list only updates the head pointer.",
			},
			{
				text:        "Which data structure uses the LIFO (Last In, First Out) principle?",
				options:     []string{"Queue", "Stack", "Array", "Tree"},
				answer:      "Stack",
				explanation: "A stack removes the most recently added element first.",
			},
			{
				text:        "What is the worst-case time complexity for searching in a binary search tree?",
				options:     []string{"O(1)", "O(log n)", "O(n)", "O(n log n)"},
				answer:      "O(n)",
				explanation: "A skewed binary search tree degenerates into a linked list.",
			},
		},
		quiz.TypeTrueFalse: {
			{
				text:        "A binary search tree guarantees O(log n) search time in all cases.",
				answer:      "false",
				explanation: "A skewed tree can require O(n) time.",
			},
			{
				text:        "Arrays provide constant time access to elements by index.",
				answer:      "true",
				explanation: "Index arithmetic gives O(1) element access.",
			},
		},
		quiz.TypeShortAnswer: {
			{
				text:        "Explain the difference between an array and a linked list in terms of memory allocation.",
				answer:      "Arrays use contiguous memory allocation while linked lists use dynamic memory allocation with nodes scattered throughout memory.",
				explanation: "Array elements are consecutive; list nodes are connected via pointers.",
			},
		},
	}},
	"Algorithms": {byType: map[string][]template{
		quiz.TypeMultipleChoice: {
			{
				text:        "What is the average time complexity of Quick Sort?",
				options:     []string{"O(n)", "O(n log n)", "O(n²)", "O(log n)"},
				answer:      "O(n log n)",
				explanation: "Quick Sort averages O(n log n); the worst case is O(n²).",
			},
			{
				text:        "Which sorting algorithm is stable and has O(n log n) time complexity in all cases?",
				options:     []string{"Quick Sort", "Heap Sort", "Merge Sort", "Selection Sort"},
				answer:      "Merge Sort",
				explanation: "Merge Sort is stable and guarantees O(n log n).",
			},
		},
		quiz.TypeTrueFalse: {
			{
				text:        "Merge Sort is a stable sorting algorithm.",
				answer:      "true",
				explanation: "It preserves the relative order of equal elements.",
			},
		},
		quiz.TypeShortAnswer: {
			{
				text:        "Describe the divide-and-conquer approach used in Merge Sort.",
				answer:      "Merge Sort divides the array into two halves, recursively sorts each half, then merges the sorted halves back together.",
				explanation: "Subproblems are solved recursively and their solutions combined.",
			},
		},
	}},
	"Mathematics": {byType: map[string][]template{
		quiz.TypeMultipleChoice: {
			{
				text:        "What is the derivative of x² + 3x + 5?",
				options:     []string{"2x + 3", "x² + 3", "2x + 5", "x + 3"},
				answer:      "2x + 3",
				explanation: "Power rule term by term.",
			},
		},
		quiz.TypeTrueFalse: {
			{
				text:        "The sum of angles in any triangle is always 180 degrees.",
				answer:      "true",
				explanation: "Fundamental property of Euclidean triangles.",
			},
		},
		quiz.TypeShortAnswer: {
			{
				text:        "Explain what a limit represents in calculus.",
				answer:      "A limit represents the value that a function approaches as the input approaches a particular value.",
				explanation: "Limits underpin the definitions of derivatives and integrals.",
			},
		},
	}},
	"Physics": {byType: map[string][]template{
		quiz.TypeMultipleChoice: {
			{
				text:        "What is Newton's second law of motion?",
				options:     []string{"F = ma", "E = mc²", "P = mv", "W = Fd"},
				answer:      "F = ma",
				explanation: "Force equals mass times acceleration.",
			},
		},
		quiz.TypeTrueFalse: {
			{
				text:        "Energy can be created or destroyed according to the law of conservation of energy.",
				answer:      "false",
				explanation: "Energy is only transformed between forms.",
			},
		},
		quiz.TypeShortAnswer: {
			{
				text:        "Explain the difference between velocity and acceleration.",
				answer:      "Velocity is the rate of change of position, while acceleration is the rate of change of velocity.",
				explanation: "One differentiates position, the other velocity.",
			},
		},
	}},
	"Chemistry": {byType: map[string][]template{
		quiz.TypeMultipleChoice: {
			{
				text:        "Which type of bond involves sharing of electrons?",
				options:     []string{"Ionic", "Covalent", "Metallic", "Hydrogen"},
				answer:      "Covalent",
				explanation: "Covalent bonds share electron pairs between atoms.",
			},
		},
		quiz.TypeTrueFalse: {
			{
				text:        "Acids have a pH value greater than 7.",
				answer:      "false",
				explanation: "Acids sit below 7 on the pH scale.",
			},
		},
		quiz.TypeShortAnswer: {
			{
				text:        "What happens during a chemical reaction?",
				answer:      "Chemical bonds are broken and new bonds are formed, resulting in new substances with different properties.",
				explanation: "Atoms rearrange into new compounds.",
			},
		},
	}},
	"Biology": {byType: map[string][]template{
		quiz.TypeMultipleChoice: {
			{
				text:        "What is the powerhouse of the cell?",
				options:     []string{"Nucleus", "Ribosome", "Mitochondria", "Golgi apparatus"},
				answer:      "Mitochondria",
				explanation: "Mitochondria produce the cell's ATP.",
			},
		},
		quiz.TypeTrueFalse: {
			{
				text:        "DNA contains the genetic instructions for all living organisms.",
				answer:      "true",
				explanation: "DNA encodes the genetic code of living things.",
			},
		},
		quiz.TypeShortAnswer: {
			{
				text:        "Explain the process of cellular respiration.",
				answer:      "Cellular respiration is the process by which cells break down glucose and oxygen to produce ATP, carbon dioxide, and water.",
				explanation: "Releases the energy stored in glucose.",
			},
		},
	}},
}
