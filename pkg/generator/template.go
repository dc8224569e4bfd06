package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// templateGenerator assembles a fixed-structure SEO article around the
// keyword. Output is deterministic for a given keyword and year.
type templateGenerator struct{}

// NewTemplateGenerator returns a Generator that needs no external service.
func NewTemplateGenerator() Generator {
	return templateGenerator{}
}

func (templateGenerator) Generate(ctx context.Context, keyword string, wordCount int64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if wordCount <= 0 {
		wordCount = DefaultWordCount
	}

	title := fmt.Sprintf("%s: Complete SEO Guide for %d", keyword, time.Now().Year())
	sections := []string{
		"# " + title,
		fmt.Sprintf("## Introduction\n\n%[1]s has become increasingly important in today's digital landscape. This comprehensive guide covers everything you need to know about %[1]s and how to implement it effectively for maximum results.", keyword),
		fmt.Sprintf("## What is %[1]s?\n\n%[1]s refers to the practice of optimizing and applying specific strategies to achieve better results. Understanding %[1]s is crucial for anyone looking to improve their performance in this area. The concept has evolved significantly over the years, adapting to new technologies and user behaviors.", keyword),
		fmt.Sprintf("## Key Benefits of %[1]s\n\n- **Improved Performance**: %[1]s can significantly enhance your overall performance\n- **Better Results**: implementing %[1]s strategies leads to measurable improvements\n- **Cost Effective**: %[1]s provides excellent return on investment\n- **Scalable Solution**: %[1]s can grow with your needs\n- **Competitive Advantage**: stay ahead of competitors with %[1]s", keyword),
		fmt.Sprintf("## Best Practices for %[1]s\n\n### 1. Start with Research\n\nBefore implementing %[1]s, conduct thorough research to understand your specific requirements and goals. This foundation is critical for success.\n\n### 2. Create a Strategy\n\nDevelop a comprehensive strategy that aligns with your objectives and incorporates %[1]s best practices.\n\n### 3. Monitor and Optimize\n\nContinuously monitor your %[1]s performance and adjust as needed.", keyword),
		fmt.Sprintf("## Advanced %s Techniques\n\nFor those looking to take their implementation further, consider:\n\n- Data-driven decision making\n- A/B testing different approaches\n- Integration with existing systems\n- Automation where possible\n- Regular performance audits", keyword),
		"## Common Mistakes to Avoid\n\n- Neglecting proper planning\n- Ignoring data and analytics\n- Failing to adapt to changes\n- Not staying updated with trends\n- Overlooking user experience\n- Insufficient testing before rollout",
		fmt.Sprintf("## Tools and Resources\n\nRecommended tooling for %s:\n\n1. Analytics platforms for tracking performance\n2. Optimization tools for improvement\n3. Monitoring software for real-time insights\n4. Educational resources for continuous learning\n5. Community forums for support and networking", keyword),
		fmt.Sprintf("## Future of %[1]s\n\nThe landscape of %[1]s continues to evolve rapidly. Staying informed about emerging trends and technologies is essential for long-term success. Key areas to watch include artificial intelligence integration, mobile optimization, and user experience enhancements.", keyword),
		fmt.Sprintf("## Conclusion\n\n%[1]s is a powerful approach that delivers significant results when implemented correctly. Follow the guidelines in this guide and you will be well-equipped to succeed with %[1]s.\n\nStay updated with the latest trends and continuously refine your approach. Success with %[1]s requires patience, persistence, and a commitment to ongoing improvement.", keyword),
	}

	content := strings.Join(sections, "\n\n")
	return &Result{
		Title:     title,
		Content:   content,
		WordCount: CountWords(content),
	}, nil
}
