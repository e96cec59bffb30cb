package sugarpoints

// QuestionCount is the fixed number of body-type questions.
const QuestionCount = 15

// Question is one multiple-choice item of the body-type quiz. Option A leans
// ectomorph, B mesomorph and C endomorph.
type Question struct {
	ID      int               `json:"id"`
	Text    string            `json:"text"`
	Options map[Answer]string `json:"options"`
}

var questions = [QuestionCount]Question{
	{ID: 1, Text: "How would you describe your natural frame?", Options: map[Answer]string{
		AnswerA: "Slim with narrow shoulders and hips",
		AnswerB: "Athletic with broad shoulders",
		AnswerC: "Wide, solid and rounded",
	}},
	{ID: 2, Text: "How easily do you gain weight?", Options: map[Answer]string{
		AnswerA: "Hardly at all, even when I overeat",
		AnswerB: "I gain, but lose it again without much effort",
		AnswerC: "Very easily, and it is hard to lose",
	}},
	{ID: 3, Text: "How do you build muscle when you train?", Options: map[Answer]string{
		AnswerA: "Slowly, it takes a lot of work",
		AnswerB: "Quickly, I respond well to training",
		AnswerC: "I gain strength, but it hides under body fat",
	}},
	{ID: 4, Text: "How is your appetite through the day?", Options: map[Answer]string{
		AnswerA: "Small, I often forget to eat",
		AnswerB: "Steady and predictable",
		AnswerC: "Large, I am hungry often",
	}},
	{ID: 5, Text: "How do you feel after a carbohydrate-heavy meal?", Options: map[Answer]string{
		AnswerA: "Energised",
		AnswerB: "Fine, no real change",
		AnswerC: "Sluggish or sleepy",
	}},
	{ID: 6, Text: "Where does your body store fat first?", Options: map[Answer]string{
		AnswerA: "It barely stores any",
		AnswerB: "Evenly across the body",
		AnswerC: "Around the waist and hips",
	}},
	{ID: 7, Text: "How would you describe your wrists?", Options: map[Answer]string{
		AnswerA: "Thin, my fingers overlap when I wrap them",
		AnswerB: "Medium, my fingers just touch",
		AnswerC: "Thick, my fingers do not meet",
	}},
	{ID: 8, Text: "What is your energy like during the day?", Options: map[Answer]string{
		AnswerA: "Restless and jittery",
		AnswerB: "High and consistent",
		AnswerC: "Up and down, with afternoon slumps",
	}},
	{ID: 9, Text: "How does your body react to skipping a meal?", Options: map[Answer]string{
		AnswerA: "I lose weight quickly",
		AnswerB: "Not much changes",
		AnswerC: "I get irritable and crave sweets",
	}},
	{ID: 10, Text: "How do you look in fitted clothing?", Options: map[Answer]string{
		AnswerA: "Long and lean",
		AnswerB: "Muscular and defined",
		AnswerC: "Soft and curvy",
	}},
	{ID: 11, Text: "How is your body temperature usually?", Options: map[Answer]string{
		AnswerA: "I often feel cold",
		AnswerB: "Comfortable most of the time",
		AnswerC: "I often feel warm",
	}},
	{ID: 12, Text: "How was your build as a teenager?", Options: map[Answer]string{
		AnswerA: "Skinny",
		AnswerB: "Sporty",
		AnswerC: "Chubby",
	}},
	{ID: 13, Text: "Which kind of exercise suits you best?", Options: map[Answer]string{
		AnswerA: "Endurance such as running or cycling",
		AnswerB: "Strength and power training",
		AnswerC: "Low-impact sessions such as walking or swimming",
	}},
	{ID: 14, Text: "How quickly do you digest food?", Options: map[Answer]string{
		AnswerA: "Fast, I am hungry again soon",
		AnswerB: "Normally",
		AnswerC: "Slowly, I feel full for a long time",
	}},
	{ID: 15, Text: "What happens to your weight on holiday?", Options: map[Answer]string{
		AnswerA: "It stays the same or drops",
		AnswerB: "A little gain that disappears by itself",
		AnswerC: "Noticeable gain that stays",
	}},
}

// Questions returns a copy of the quiz in id order.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		options := make(map[Answer]string, len(q.Options))
		for letter, text := range q.Options {
			options[letter] = text
		}
		q.Options = options
		out[i] = q
	}
	return out
}
