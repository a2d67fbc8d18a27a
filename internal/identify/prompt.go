package identify

// Prompt is the fixed instruction sent with every identification
// request. The response parser depends on the exact labels requested
// here, so the text must stay in sync with the parser's recognized
// labels. No user-supplied text is ever appended to it.
const Prompt = `Identify the plant in this image and provide the following information:
1. Common Name: [Primary name of the plant]
2. Alternative Name: [Another common name, if applicable. If none, write "None"]
3. Scientific Name: [Botanical name of the plant]
4. Description: [A brief description of the plant's appearance, characteristics, and care requirements]

Please format your response exactly as follows:
Common Name: [Answer]
Alternative Name: [Answer]
Scientific Name: [Answer]
Description: [Answer]`
