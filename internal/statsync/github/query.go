package github

// viewerStatsQuery fetches everything a sync needs in one round trip:
// profile counters, the contribution calendar, pull-request contributions
// by repository, and per-language byte sizes across recently pushed repos.
const viewerStatsQuery = `
query {
  viewer {
    login
    createdAt

    contributionsCollection {
      totalCommitContributions
      totalPullRequestContributions
      totalPullRequestReviewContributions
      totalIssueContributions

      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            contributionCount
            date
          }
        }
      }

      pullRequestContributionsByRepository(maxRepositories: 25) {
        repository {
          name
          owner { login }
          stargazerCount
          description
          url
          languages(first: 1, orderBy: {field: SIZE, direction: DESC}) {
            nodes { name color }
          }
        }
        contributions(first: 1) { totalCount }
      }
    }

    repositories(first: 100, ownerAffiliations: OWNER, isFork: false) {
      totalCount
      nodes {
        isPrivate
        stargazerCount
      }
    }

    topRepositories: repositories(first: 50, ownerAffiliations: OWNER, orderBy: {field: PUSHED_AT, direction: DESC}) {
      nodes {
        languages(first: 5, orderBy: {field: SIZE, direction: DESC}) {
          edges {
            size
            node { name color }
          }
        }
      }
    }

    followers { totalCount }
    following { totalCount }
  }
}
`
